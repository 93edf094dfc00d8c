package loader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnsupportedFormat is returned for file extensions no backend reads.
var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// ModelData is an imported model: triangle meshes in model space plus their combined bounds.
type ModelData struct {
	Name   string
	Meshes []renderer.MeshData
	Bounds common.BoundingBox
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]*ModelData
	backends   map[string]loaderBackend

	scale           float32
	generateNormals bool
}

// Loader imports model files into CPU-side geometry and caches the result by name.
// Imported models are shared: callers must not modify the returned meshes.
type Loader interface {
	// Load imports a model file, or returns the cached import of the same path.
	// The backend is chosen by file extension (.gltf and .glb).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *ModelData: the imported model
	//   - error: ErrUnsupportedFormat for unknown extensions, or the import failure
	Load(path string) (*ModelData, error)

	// LoadReader imports a glTF stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key for the model
	//   - r: the reader providing model data
	//   - isGLB: true if r holds a GLB container
	//
	// Returns:
	//   - *ModelData: the imported model
	//   - error: error if the import fails
	LoadReader(name string, r io.Reader, isGLB bool) (*ModelData, error)

	// Get returns a cached model.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *ModelData: the model, or nil if not cached
	Get(name string) *ModelData

	// Models returns a copy of the cache.
	//
	// Returns:
	//   - map[string]*ModelData: all cached models keyed by name
	Models() map[string]*ModelData
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the glTF backend registered.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache:      make(map[string]*ModelData),
		scale:           1,
		generateNormals: true,
	}
	for _, option := range options {
		option(l)
	}

	gltf := &gltfLoaderBackend{generateNormals: l.generateNormals}
	l.backends = map[string]loaderBackend{".gltf": gltf, ".glb": gltf}
	return l
}

func (l *loader) Load(path string) (*ModelData, error) {
	if m := l.Get(path); m != nil {
		return m, nil
	}

	backend, ok := l.backends[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	meshes, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load %s: %w", path, err)
	}
	return l.store(path, meshes)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*ModelData, error) {
	if m := l.Get(name); m != nil {
		return m, nil
	}
	meshes, err := l.backends[".gltf"].LoadReader(r, isGLB, "")
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load %s: %w", name, err)
	}
	return l.store(name, meshes)
}

func (l *loader) Get(name string) *ModelData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]*ModelData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]*ModelData, len(l.modelCache))
	for k, v := range l.modelCache {
		out[k] = v
	}
	return out
}

// store applies the import scale, computes the bounds and caches the model.
func (l *loader) store(name string, meshes []renderer.MeshData) (*ModelData, error) {
	if len(meshes) == 0 {
		return nil, fmt.Errorf("loader: %s has no meshes", name)
	}

	m := &ModelData{Name: name, Meshes: meshes}
	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		if l.scale != 1 {
			for j := range mesh.Positions {
				mesh.Positions[j] = mesh.Positions[j].Mul(l.scale)
			}
		}
		box := boundsOf(mesh.Positions)
		if i == 0 {
			m.Bounds = box
		} else {
			m.Bounds = common.Union(m.Bounds, box)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[name]; ok {
		return cached, nil
	}
	l.modelCache[name] = m
	log.Printf("[Loader] loaded %s: %d meshes", name, len(m.Meshes))
	return m, nil
}

func boundsOf(points []mgl32.Vec3) common.BoundingBox {
	box := common.BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = common.Union(box, common.BoundingBox{Min: p, Max: p})
	}
	return box
}
