package renderpass

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// uniformWriter uploads named uniforms of one shader through a backend.
// Names the program does not declare are skipped by the backend.
type uniformWriter struct {
	b  renderer.Backend
	sh shader.Shader
}

func (w uniformWriter) Int(name string, v int32) {
	w.b.SetUniformInt(w.sh.Program(), w.sh.Location(name), v)
}

func (w uniformWriter) Vec3(name string, v mgl32.Vec3) {
	w.b.SetUniformVec3(w.sh.Program(), w.sh.Location(name), v)
}

func (w uniformWriter) Vec4(name string, v mgl32.Vec4) {
	w.b.SetUniformVec4(w.sh.Program(), w.sh.Location(name), v)
}

func (w uniformWriter) Mat4(name string, v mgl32.Mat4) {
	w.b.SetUniformMat4(w.sh.Program(), w.sh.Location(name), v)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
