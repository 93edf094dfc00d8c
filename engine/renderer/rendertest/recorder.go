// Package rendertest provides a headless renderer.Backend that records every call.
// It backs unit tests and headless runs of the demo programs.
package rendertest

import (
	"fmt"
	"maps"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawKind tells mesh draws from billboard draws.
type DrawKind int

const (
	DrawMesh DrawKind = iota
	DrawBillboard
)

// Draw is a snapshot of one draw call and the state it was issued under.
type Draw struct {
	Kind      DrawKind
	Mesh      renderer.MeshHandle
	Material  renderer.Material
	Transform mgl32.Mat4
	Position  mgl32.Vec3

	// Program is the effective program: the material override or the current one.
	Program shader.Program
	// State is the fixed-function state resolved from the dynamic toggles.
	State pipeline.Pipeline
	// Target is the bound depth target ID, zero for the default framebuffer.
	Target uint32
	View   mgl32.Mat4
	Proj   mgl32.Mat4
	// Uniforms holds the effective program's uniform values by name at draw time.
	Uniforms map[string]any
}

type program struct {
	vertexPath   string
	fragmentPath string
	names        []string
	locations    map[string]int
	values       map[int]any
}

// Recorder implements renderer.Backend in memory.
// Uniform locations are handed out on first lookup, so every name is known to every program.
type Recorder struct {
	mu *sync.Mutex

	// FailShaders lists shader paths whose load fails.
	FailShaders map[string]bool
	// FailDepthTargets makes CreateDepthTarget fail.
	FailDepthTargets bool
	// FailMeshes makes every UploadMesh fail.
	FailMeshes bool

	calls []string
	draws []Draw

	nextID   uint32
	programs map[shader.Program]*program
	meshes   map[renderer.MeshHandle]mgl32.Vec3
	targets  map[uint32]renderer.DepthTarget
	textures map[int]renderer.TextureID

	current   shader.Program
	depthMask bool
	culling   bool
	blending  bool
	blendMode pipeline.BlendMode
	target    uint32
	view      mgl32.Mat4
	proj      mgl32.Mat4
	viewStack []([2]mgl32.Mat4)
}

var _ renderer.Backend = &Recorder{}

// NewRecorder creates a Recorder with depth writes and back-face culling enabled.
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder() *Recorder {
	return &Recorder{
		mu:          &sync.Mutex{},
		FailShaders: make(map[string]bool),
		programs:    make(map[shader.Program]*program),
		meshes:      make(map[renderer.MeshHandle]mgl32.Vec3),
		targets:     make(map[uint32]renderer.DepthTarget),
		textures:    make(map[int]renderer.TextureID),
		depthMask:   true,
		culling:     true,
		view:        mgl32.Ident4(),
		proj:        mgl32.Ident4(),
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

func (r *Recorder) LoadShader(vertexPath, fragmentPath string) (shader.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("LoadShader(%s,%s)", vertexPath, fragmentPath)
	if r.FailShaders[vertexPath] || r.FailShaders[fragmentPath] {
		return 0, fmt.Errorf("rendertest: cannot load %q/%q", vertexPath, fragmentPath)
	}
	p := shader.Program(r.id())
	r.programs[p] = &program{
		vertexPath:   vertexPath,
		fragmentPath: fragmentPath,
		locations:    make(map[string]int),
		values:       make(map[int]any),
	}
	return p, nil
}

func (r *Recorder) UnloadShader(p shader.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UnloadShader(%d)", p)
	delete(r.programs, p)
}

func (r *Recorder) ShaderLocation(p shader.Program, name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	prog, ok := r.programs[p]
	if !ok {
		return shader.InvalidLocation
	}
	if loc, ok := prog.locations[name]; ok {
		return loc
	}
	loc := len(prog.names)
	prog.names = append(prog.names, name)
	prog.locations[name] = loc
	return loc
}

func (r *Recorder) setUniform(p shader.Program, loc int, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prog, ok := r.programs[p]
	if !ok || loc < 0 || loc >= len(prog.names) {
		return
	}
	r.record("SetUniform(%d,%s)", p, prog.names[loc])
	prog.values[loc] = v
}

func (r *Recorder) SetUniformInt(p shader.Program, loc int, v int32) {
	r.setUniform(p, loc, v)
}

func (r *Recorder) SetUniformFloat(p shader.Program, loc int, v float32) {
	r.setUniform(p, loc, v)
}

func (r *Recorder) SetUniformVec3(p shader.Program, loc int, v mgl32.Vec3) {
	r.setUniform(p, loc, v)
}

func (r *Recorder) SetUniformVec4(p shader.Program, loc int, v mgl32.Vec4) {
	r.setUniform(p, loc, v)
}

func (r *Recorder) SetUniformMat4(p shader.Program, loc int, v mgl32.Mat4) {
	r.setUniform(p, loc, v)
}

func (r *Recorder) BeginShader(p shader.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BeginShader(%d)", p)
	r.current = p
}

func (r *Recorder) EndShader() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EndShader")
	r.current = 0
}

func (r *Recorder) BeginBlendMode(m pipeline.BlendMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BeginBlendMode(%s)", m)
	r.blending = true
	r.blendMode = m
}

func (r *Recorder) EndBlendMode() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EndBlendMode")
	r.blending = false
}

func (r *Recorder) SetDepthMask(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SetDepthMask(%t)", enabled)
	r.depthMask = enabled
}

func (r *Recorder) SetBackfaceCulling(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SetBackfaceCulling(%t)", enabled)
	r.culling = enabled
}

func (r *Recorder) BeginMode3D(view, proj mgl32.Mat4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BeginMode3D")
	r.viewStack = append(r.viewStack, [2]mgl32.Mat4{r.view, r.proj})
	r.view, r.proj = view, proj
}

func (r *Recorder) EndMode3D() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EndMode3D")
	if n := len(r.viewStack); n > 0 {
		r.view, r.proj = r.viewStack[n-1][0], r.viewStack[n-1][1]
		r.viewStack = r.viewStack[:n-1]
	}
}

func (r *Recorder) CreateDepthTarget(desc renderer.DepthTargetDescriptor) (renderer.DepthTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("CreateDepthTarget(%dx%d)", desc.Width, desc.Height)
	if r.FailDepthTargets || desc.Width == 0 || desc.Height == 0 {
		return renderer.DepthTarget{}, fmt.Errorf("rendertest: depth target %q is incomplete", desc.Label)
	}
	t := renderer.DepthTarget{
		ID:         r.id(),
		Texture:    renderer.TextureID(r.id()),
		Descriptor: desc,
	}
	r.targets[t.ID] = t
	return t, nil
}

func (r *Recorder) BindDepthTarget(t renderer.DepthTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindDepthTarget(%d)", t.ID)
	r.target = t.ID
}

func (r *Recorder) UnbindDepthTarget() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UnbindDepthTarget")
	r.target = 0
}

func (r *Recorder) ClearDepth() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ClearDepth")
}

func (r *Recorder) ReleaseDepthTarget(t renderer.DepthTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ReleaseDepthTarget(%d)", t.ID)
	delete(r.targets, t.ID)
}

func (r *Recorder) BindTexture(slot int, tex renderer.TextureID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindTexture(%d,%d)", slot, tex)
	r.textures[slot] = tex
}

func (r *Recorder) GenCube(size mgl32.Vec3) renderer.MeshHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := renderer.MeshHandle(r.id())
	r.meshes[m] = size
	return m
}

func (r *Recorder) UploadMesh(data renderer.MeshData) (renderer.MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UploadMesh(%s,%d)", data.Name, len(data.Positions))
	if r.FailMeshes {
		return 0, fmt.Errorf("rendertest: mesh %q upload failed", data.Name)
	}
	m := renderer.MeshHandle(r.id())
	r.meshes[m] = mgl32.Vec3{}
	return m, nil
}

func (r *Recorder) UnloadMesh(m renderer.MeshHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meshes, m)
}

func (r *Recorder) snapshot(kind DrawKind, mat renderer.Material) Draw {
	p := r.current
	if mat.Shader != 0 {
		p = mat.Shader
	}
	d := Draw{
		Kind:     kind,
		Material: mat,
		Program:  p,
		State:    pipeline.FromState(r.depthMask, r.culling, r.blending, r.blendMode),
		Target:   r.target,
		View:     r.view,
		Proj:     r.proj,
		Uniforms: make(map[string]any),
	}
	if prog, ok := r.programs[p]; ok {
		for loc, v := range prog.values {
			d.Uniforms[prog.names[loc]] = v
		}
	}
	return d
}

func (r *Recorder) DrawMesh(mesh renderer.MeshHandle, mat renderer.Material, transform mgl32.Mat4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawMesh(%d)", mesh)
	d := r.snapshot(DrawMesh, mat)
	d.Mesh = mesh
	d.Transform = transform
	d.Position = transform.Col(3).Vec3()
	r.draws = append(r.draws, d)
}

func (r *Recorder) DrawBillboard(view mgl32.Mat4, mat renderer.Material, position, up mgl32.Vec3, size mgl32.Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawBillboard")
	d := r.snapshot(DrawBillboard, mat)
	d.View = view
	d.Position = position
	r.draws = append(r.draws, d)
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Draws returns a copy of the recorded draws.
func (r *Recorder) Draws() []Draw {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Draw(nil), r.draws...)
}

// Reset forgets recorded calls and draws but keeps every live resource and toggle.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.draws = nil
}

// Uniform returns the current value of a named uniform of a program.
//
// Parameters:
//   - p: the program
//   - name: the uniform name
//
// Returns:
//   - any: the last uploaded value
//   - bool: false if the program is unknown or the uniform was never set
func (r *Recorder) Uniform(p shader.Program, name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prog, ok := r.programs[p]
	if !ok {
		return nil, false
	}
	loc, ok := prog.locations[name]
	if !ok {
		return nil, false
	}
	v, ok := prog.values[loc]
	return v, ok
}

// BoundTexture returns the texture bound to a slot.
func (r *Recorder) BoundTexture(slot int) renderer.TextureID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textures[slot]
}

// LivePrograms returns the number of loaded, not yet unloaded programs.
func (r *Recorder) LivePrograms() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.programs)
}

// LiveDepthTargets returns the created, not yet released depth targets by ID.
func (r *Recorder) LiveDepthTargets() map[uint32]renderer.DepthTarget {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.targets)
}

// LiveMeshes returns the number of meshes not yet unloaded.
func (r *Recorder) LiveMeshes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.meshes)
}

// RasterState returns the current depth-mask, culling and blending toggles.
func (r *Recorder) RasterState() (depthMask, culling, blending bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depthMask, r.culling, r.blending
}
