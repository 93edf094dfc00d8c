package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfMeshExtractor turns the meshes of a parsed document into world-baked triangle geometry.
// Every mesh referenced by the node hierarchy is emitted once per referencing node, with the
// node's world transform applied to positions and normals.
type gltfMeshExtractor struct {
	parser          *gltfParser
	generateNormals bool
}

func newGLTFMeshExtractor(parser *gltfParser, generateNormals bool) *gltfMeshExtractor {
	return &gltfMeshExtractor{parser: parser, generateNormals: generateNormals}
}

func (e *gltfMeshExtractor) extractAll() ([]renderer.MeshData, error) {
	doc := e.parser.document
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	// A document without nodes is a plain mesh library.
	if len(doc.Nodes) == 0 {
		var out []renderer.MeshData
		for i := range doc.Meshes {
			meshes, err := e.extractMesh(i, mgl32.Ident4())
			if err != nil {
				return nil, err
			}
			out = append(out, meshes...)
		}
		return out, nil
	}

	var out []renderer.MeshData
	visiting := make([]bool, len(doc.Nodes))
	for _, root := range e.roots() {
		if err := e.walk(root, mgl32.Ident4(), visiting, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// roots returns the root nodes of the default scene, or every parentless node when the
// document declares no scene.
func (e *gltfMeshExtractor) roots() []int {
	doc := e.parser.document
	if len(doc.Scenes) > 0 {
		scene := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			scene = *doc.Scene
		}
		return doc.Scenes[scene].Nodes
	}

	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

func (e *gltfMeshExtractor) walk(index int, parent mgl32.Mat4, visiting []bool, out *[]renderer.MeshData) error {
	doc := e.parser.document
	if index < 0 || index >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", index)
	}
	if visiting[index] {
		return fmt.Errorf("node %d is its own ancestor", index)
	}
	visiting[index] = true
	defer func() { visiting[index] = false }()

	node := &doc.Nodes[index]
	world := parent.Mul4(nodeLocalTransform(node))

	if node.Mesh != nil {
		meshes, err := e.extractMesh(*node.Mesh, world)
		if err != nil {
			return fmt.Errorf("node %d: %w", index, err)
		}
		*out = append(*out, meshes...)
	}
	for _, c := range node.Children {
		if err := e.walk(c, world, visiting, out); err != nil {
			return err
		}
	}
	return nil
}

func nodeLocalTransform(n *gltfNode) mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	t, r, s := mgl32.Ident4(), mgl32.Ident4(), mgl32.Ident4()
	if n.Translation != nil {
		t = mgl32.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])
	}
	if n.Rotation != nil {
		q := mgl32.Quat{W: n.Rotation[3], V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}}
		r = q.Normalize().Mat4()
	}
	if n.Scale != nil {
		s = mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	}
	return t.Mul4(r).Mul4(s)
}

// extractMesh returns one MeshData per primitive of a mesh, transformed by world.
func (e *gltfMeshExtractor) extractMesh(meshIndex int, world mgl32.Mat4) ([]renderer.MeshData, error) {
	doc := e.parser.document
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	mesh := &doc.Meshes[meshIndex]

	out := make([]renderer.MeshData, 0, len(mesh.Primitives))
	for i := range mesh.Primitives {
		data, err := e.extractPrimitive(&mesh.Primitives[i], meshName(mesh.Name, meshIndex, i))
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, i, err)
		}
		bakeTransform(&data, world)
		out = append(out, data)
	}
	return out, nil
}

func meshName(name string, meshIndex, primIndex int) string {
	if name == "" {
		name = fmt.Sprintf("mesh_%d", meshIndex)
	}
	if primIndex > 0 {
		name = fmt.Sprintf("%s_prim%d", name, primIndex)
	}
	return name
}

func (e *gltfMeshExtractor) extractPrimitive(prim *gltfPrimitive, name string) (renderer.MeshData, error) {
	data := renderer.MeshData{Name: name}
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return data, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return data, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := readFloatAccessor[mgl32.Vec3](e.parser, posAccessor, gltfAccessorTypeVec3)
	if err != nil {
		return data, fmt.Errorf("failed to read positions: %w", err)
	}
	data.Positions = positions

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if data.Normals, err = readFloatAccessor[mgl32.Vec3](e.parser, idx, gltfAccessorTypeVec3); err != nil {
			return data, fmt.Errorf("failed to read normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if data.TexCoords, err = readFloatAccessor[mgl32.Vec2](e.parser, idx, gltfAccessorTypeVec2); err != nil {
			return data, fmt.Errorf("failed to read texcoords: %w", err)
		}
	}

	if prim.Indices != nil {
		if data.Indices, err = e.parser.readIndices(*prim.Indices); err != nil {
			return data, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		data.Indices = make([]uint32, len(positions))
		for i := range data.Indices {
			data.Indices[i] = uint32(i)
		}
	}

	if err := data.Validate(); err != nil {
		return data, err
	}
	if len(data.Normals) == 0 && e.generateNormals {
		data.Normals = generateNormals(data.Positions, data.Indices)
	}
	return data, nil
}

// bakeTransform moves positions into the space of m and re-orients normals with its inverse transpose.
func bakeTransform(data *renderer.MeshData, m mgl32.Mat4) {
	if m == mgl32.Ident4() {
		return
	}
	for i, p := range data.Positions {
		data.Positions[i] = mgl32.TransformCoordinate(p, m)
	}
	if len(data.Normals) == 0 {
		return
	}
	normalMat := m.Mat3().Inv().Transpose()
	for i, n := range data.Normals {
		if t := normalMat.Mul3x1(n); t.Len() > 1e-6 {
			data.Normals[i] = t.Normalize()
		}
	}
}

// generateNormals builds smooth vertex normals by summing the area-weighted normals of
// every triangle that touches a vertex. Vertices on no triangle point up.
func generateNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	accum := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := positions[i0]
		face := positions[i1].Sub(p0).Cross(positions[i2].Sub(p0))
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	}
	for i, n := range accum {
		if n.Len() < 1e-6 {
			accum[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		accum[i] = n.Normalize()
	}
	return accum
}
