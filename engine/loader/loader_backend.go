package loader

import (
	"io"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
)

// loaderBackend decodes one model file format into triangle geometry.
type loaderBackend interface {
	// Load imports a model file.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []renderer.MeshData: one entry per drawable primitive
	//   - error: error if loading fails
	Load(path string) ([]renderer.MeshData, error)

	// LoadReader imports a model from a stream. External buffer files resolve against baseDir.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - binary: true if the stream is in the format's binary container
	//   - baseDir: the directory external references resolve against
	//
	// Returns:
	//   - []renderer.MeshData: one entry per drawable primitive
	//   - error: error if loading fails
	LoadReader(r io.Reader, binary bool, baseDir string) ([]renderer.MeshData, error)
}

// gltfLoaderBackend reads .gltf and .glb files.
type gltfLoaderBackend struct {
	generateNormals bool
}

var _ loaderBackend = &gltfLoaderBackend{}

func (b *gltfLoaderBackend) Load(path string) ([]renderer.MeshData, error) {
	p := newGLTFParser(filepath.Dir(path))
	if err := p.parseFile(path); err != nil {
		return nil, err
	}
	return newGLTFMeshExtractor(p, b.generateNormals).extractAll()
}

func (b *gltfLoaderBackend) LoadReader(r io.Reader, binary bool, baseDir string) ([]renderer.MeshData, error) {
	p := newGLTFParser(baseDir)
	if err := p.parseReader(r, binary); err != nil {
		return nil, err
	}
	return newGLTFMeshExtractor(p, b.generateNormals).extractAll()
}
