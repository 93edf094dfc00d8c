package shader

import (
	"errors"
	"fmt"
	"sync"
)

// Program is an opaque handle to a compiled and linked shader program owned by a backend.
// The zero Program is invalid.
type Program uint32

// InvalidLocation is returned for uniform names the program does not declare.
const InvalidLocation = -1

// ErrInvalidShader is returned when a backend yields an invalid program for a shader.
var ErrInvalidShader = errors.New("shader: invalid program")

// Loader compiles shader sources into programs and resolves uniform locations.
// Rendering backends implement it.
type Loader interface {
	// LoadShader compiles and links a vertex/fragment pair.
	//
	// Parameters:
	//   - vertexPath: path of the vertex shader source (empty selects the backend default)
	//   - fragmentPath: path of the fragment shader source (empty selects the backend default)
	//
	// Returns:
	//   - Program: the program handle, zero when loading failed
	//   - error: error if the sources could not be loaded or linked
	LoadShader(vertexPath, fragmentPath string) (Program, error)

	// UnloadShader frees a program.
	//
	// Parameters:
	//   - p: the program to free
	UnloadShader(p Program)

	// ShaderLocation resolves the location of a named uniform.
	//
	// Parameters:
	//   - p: the program to query
	//   - name: the uniform name
	//
	// Returns:
	//   - int: the location, or InvalidLocation if the program does not declare it
	ShaderLocation(p Program, name string) int
}

// shader is the implementation of the Shader interface.
type shader struct {
	mu *sync.Mutex

	key          string
	vertexPath   string
	fragmentPath string

	program   Program
	loader    Loader
	locations map[string]int
}

// Shader is a named vertex/fragment program with a cache of resolved uniform locations.
// A Shader starts unloaded; Load binds it to the backend that owns its program and
// Unload releases the program again.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for logging and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// VertexPath retrieves the vertex source path.
	//
	// Returns:
	//   - string: the path passed at construction
	VertexPath() string

	// FragmentPath retrieves the fragment source path.
	//
	// Returns:
	//   - string: the path passed at construction
	FragmentPath() string

	// Program retrieves the backend program handle.
	//
	// Returns:
	//   - Program: the handle, zero if the shader is not loaded
	Program() Program

	// Valid reports whether the shader holds a loaded program.
	//
	// Returns:
	//   - bool: true once Load succeeded and until Unload
	Valid() bool

	// Load compiles the shader through the loader. Loading an already loaded shader is a no-op.
	//
	// Parameters:
	//   - loader: the backend that compiles and owns the program
	//
	// Returns:
	//   - error: ErrInvalidShader (wrapped) if the loader fails or yields a zero program
	Load(loader Loader) error

	// Unload frees the program. Safe to call on an unloaded shader.
	Unload()

	// Location resolves a uniform location, caching the result per name.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - int: the location, or InvalidLocation if unknown or unloaded
	Location(name string) int
}

var _ Shader = &shader{}

// NewShader creates an unloaded shader.
//
// Parameters:
//   - key: a unique identifier for the shader, used for logging and lookups
//   - vertexPath: the vertex shader source path
//   - fragmentPath: the fragment shader source path
//
// Returns:
//   - Shader: a new, unloaded Shader
func NewShader(key, vertexPath, fragmentPath string) Shader {
	if key == "" {
		panic("shader: NewShader requires a non-empty key")
	}
	return &shader{
		mu:           &sync.Mutex{},
		key:          key,
		vertexPath:   vertexPath,
		fragmentPath: fragmentPath,
		locations:    make(map[string]int),
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) VertexPath() string {
	return s.vertexPath
}

func (s *shader) FragmentPath() string {
	return s.fragmentPath
}

func (s *shader) Program() Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

func (s *shader) Valid() bool {
	return s.Program() != 0
}

func (s *shader) Load(loader Loader) error {
	if loader == nil {
		panic("shader: Load requires a non-nil Loader")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program != 0 {
		return nil
	}

	p, err := loader.LoadShader(s.vertexPath, s.fragmentPath)
	if err != nil {
		return fmt.Errorf("shader %s: %w: %w", s.key, ErrInvalidShader, err)
	}
	if p == 0 {
		return fmt.Errorf("shader %s: %w", s.key, ErrInvalidShader)
	}
	s.program = p
	s.loader = loader
	clear(s.locations)
	return nil
}

func (s *shader) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program == 0 {
		return
	}
	s.loader.UnloadShader(s.program)
	s.program = 0
	s.loader = nil
	clear(s.locations)
}

func (s *shader) Location(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program == 0 {
		return InvalidLocation
	}
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := s.loader.ShaderLocation(s.program, name)
	s.locations[name] = loc
	return loc
}
