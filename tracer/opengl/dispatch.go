package opengl

import (
	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/prism-engine/prism/scene"
)

// dispatch runs the path-trace compute kernel over every pixel of the
// render target, one workgroup per pixel.
func (p *Pipeline) dispatch(cam *scene.Camera) {
	gl.UseProgram(p.traceProg)

	p.gbuffer.bindInputs()
	p.materials.Bind(unitMaterials)

	p.pollEnvironment()
	p.environment.Bind(unitEnvironment)

	gl.BindImageTexture(unitRenderTarget, p.target.Handle(), 0, false, 0, gl.WRITE_ONLY, gl.RGBA32F)

	axisU, axisV, axisW := cam.RayFrame()
	setVec3(p.traceProg, "camera.position", cam.Position())
	setVec3(p.traceProg, "camera.axis_u", axisU)
	setVec3(p.traceProg, "camera.axis_v", axisV)
	setVec3(p.traceProg, "camera.axis_w", axisW)

	var hasEnv int32
	if p.environment != nil && p.environment.Handle() != 0 {
		hasEnv = 1
	}
	setInt(p.traceProg, "has_environment", hasEnv)

	gl.DispatchCompute(uint32(p.width), uint32(p.height), 1)
}

// pollEnvironment checks the async loader for a decoded image and
// uploads it on first delivery. A failed load leaves the environment
// unset; rendering continues without it.
func (p *Pipeline) pollEnvironment() {
	if p.envLoader == nil {
		return
	}

	res, ok := p.envLoader.Poll()
	if !ok {
		return
	}
	if res.Failed() {
		p.logger.Warningf("environment map unavailable; continuing without it")
		return
	}

	tex := newTexture("environment")
	tex.AllocateWithData(
		int32(res.Width), int32(res.Height),
		gl.RGBA32F, gl.RGBA, gl.FLOAT, gl.LINEAR,
		gl.Ptr(res.Pix),
	)
	p.environment = tex
	p.logger.Noticef("environment map ready: %d x %d", res.Width, res.Height)
}
