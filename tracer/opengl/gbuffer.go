package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// gBufferState tracks the allocation state machine. The stage only
// renders once the full attachment set has validated.
type gBufferState int

const (
	gBufferUninitialized gBufferState = iota
	gBufferAllocated
	gBufferReady
)

// GBuffer owns the three geometry output images plus the depth buffer,
// bound as simultaneous rasterization targets at a fixed resolution.
type GBuffer struct {
	fbo uint32

	position      *Texture
	normal        *Texture
	materialIndex *Texture
	depth         *Texture

	width  int32
	height int32
	state  gBufferState
}

// allocateGBuffer creates the attachment set. An incomplete
// framebuffer is a fatal configuration error: the error is returned
// and the stage never reaches the ready state.
func allocateGBuffer(width, height int32) (*GBuffer, error) {
	g := &GBuffer{
		position:      newTexture("g_position"),
		normal:        newTexture("g_normal"),
		materialIndex: newTexture("g_material_index"),
		depth:         newTexture("g_depth"),
		width:         width,
		height:        height,
	}

	g.position.Allocate(width, height, gl.RGB16F, gl.RGB, gl.FLOAT, gl.NEAREST)
	g.normal.Allocate(width, height, gl.RGB16F, gl.RGB, gl.FLOAT, gl.NEAREST)
	g.materialIndex.Allocate(width, height, gl.R32UI, gl.RED_INTEGER, gl.UNSIGNED_INT, gl.NEAREST)
	g.depth.Allocate(width, height, gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT, gl.NEAREST)

	gl.GenFramebuffers(1, &g.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, g.position.Handle(), 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT1, gl.TEXTURE_2D, g.normal.Handle(), 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT2, gl.TEXTURE_2D, g.materialIndex.Handle(), 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, g.depth.Handle(), 0)

	attachments := []uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1, gl.COLOR_ATTACHMENT2}
	gl.DrawBuffers(int32(len(attachments)), &attachments[0])
	g.state = gBufferAllocated

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		g.Release()
		return nil, fmt.Errorf("opengl: incomplete g-buffer attachment set (status 0x%x)", status)
	}

	g.state = gBufferReady
	return g, nil
}

// render clears the attachment set and rasterizes every submesh into
// it. Submeshes are drawn in load order; draws are independent since
// depth testing resolves visibility.
func (g *GBuffer) render(prog uint32, view, projection mgl32.Mat4, geometry []*GeometryBuffers) {
	if g.state != gBufferReady {
		return
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, g.fbo)
	gl.Viewport(0, 0, g.width, g.height)
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(prog)
	setMat4(prog, "model", mgl32.Ident4())
	setMat4(prog, "view", view)
	setMat4(prog, "projection", projection)

	for _, buf := range geometry {
		// Must carry the same index used when the packed material
		// buffer was built.
		setUint(prog, "material_index", buf.materialIndex)
		buf.draw()
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// bindInputs attaches the g-buffer outputs to their compute units.
func (g *GBuffer) bindInputs() {
	g.position.Bind(unitGPosition)
	g.normal.Bind(unitGNormal)
	g.materialIndex.Bind(unitGMaterialIndex)
}

// Release frees the framebuffer and its attachments.
func (g *GBuffer) Release() {
	if g.fbo != 0 {
		gl.DeleteFramebuffers(1, &g.fbo)
		g.fbo = 0
	}
	for _, tex := range []*Texture{g.position, g.normal, g.materialIndex, g.depth} {
		tex.Release()
	}
	g.state = gBufferUninitialized
}
