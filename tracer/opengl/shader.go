package opengl

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/gbuffer.vert
var gbufferVertSrc string

//go:embed shaders/gbuffer.frag
var gbufferFragSrc string

//go:embed shaders/pathtrace.comp
var pathtraceSrc string

// buildGBufferProgram compiles and links the rasterization program
// for the geometry pre-pass.
func buildGBufferProgram() (uint32, error) {
	vert, err := compileShader(gbufferVertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	frag, err := compileShader(gbufferFragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, err
	}
	return linkProgram(vert, frag)
}

// buildTraceProgram compiles and links the path-trace compute kernel.
func buildTraceProgram() (uint32, error) {
	comp, err := compileShader(pathtraceSrc, gl.COMPUTE_SHADER)
	if err != nil {
		return 0, err
	}
	return linkProgram(comp)
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	handle := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csrc, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		infoLog := shaderInfoLog(handle)
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("opengl: shader compilation failed: %s", infoLog)
	}
	return handle, nil
}

// linkProgram links the given stages into a program and deletes the
// stage objects.
func linkProgram(shaders ...uint32) (uint32, error) {
	prog := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(prog, sh)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		infoLog := programInfoLog(prog)
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("opengl: program link failed: %s", infoLog)
	}

	for _, sh := range shaders {
		gl.DetachShader(prog, sh)
		gl.DeleteShader(sh)
	}
	return prog, nil
}

func shaderInfoLog(handle uint32) string {
	var logLen int32
	gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return "no info log"
	}
	infoLog := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(handle, logLen, nil, gl.Str(infoLog))
	return strings.TrimRight(infoLog, "\x00")
}

func programInfoLog(prog uint32) string {
	var logLen int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return "no info log"
	}
	infoLog := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(infoLog))
	return strings.TrimRight(infoLog, "\x00")
}

// Typed uniform setters. The program must be in use; unknown names
// resolve to location -1 which the GL silently ignores.

func setMat4(prog uint32, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(uniformLocation(prog, name), 1, false, &m[0])
}

func setVec3(prog uint32, name string, v mgl32.Vec3) {
	gl.Uniform3fv(uniformLocation(prog, name), 1, &v[0])
}

func setUint(prog uint32, name string, v uint32) {
	gl.Uniform1ui(uniformLocation(prog, name), v)
}

func setInt(prog uint32, name string, v int32) {
	gl.Uniform1i(uniformLocation(prog, name), v)
}

func uniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
