package opengl

import (
	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/prism-engine/prism/envmap"
	"github.com/prism-engine/prism/log"
	"github.com/prism-engine/prism/scene"
)

// Config controls the pipeline's output resolution and optional
// environment map source.
type Config struct {
	Width  int32
	Height int32

	// EnvironmentPath points at an equirectangular HDR image to light
	// the scene with. Empty means no environment illumination.
	EnvironmentPath string
}

// Pipeline owns the GPU state for a two-stage deferred render: a
// rasterized geometry pre-pass into the g-buffer followed by a compute
// dispatch that shades every pixel and writes the final frame to the
// render target.
type Pipeline struct {
	logger log.Logger

	width  int32
	height int32

	gbufferProg uint32
	traceProg   uint32

	gbuffer  *GBuffer
	geometry []*GeometryBuffers

	materials   *Texture
	environment *Texture
	target      *Texture

	envLoader *envmap.Loader
}

// NewPipeline uploads the model's geometry and materials and allocates
// the g-buffer and render target at the configured resolution. It must
// run on the thread holding the GL context.
func NewPipeline(model *scene.Model, cfg Config) (*Pipeline, error) {
	p := &Pipeline{
		logger: log.New("tracer"),
		width:  cfg.Width,
		height: cfg.Height,
	}

	var err error
	if p.gbufferProg, err = buildGBufferProgram(); err != nil {
		return nil, err
	}
	if p.traceProg, err = buildTraceProgram(); err != nil {
		p.Release()
		return nil, err
	}

	if p.gbuffer, err = allocateGBuffer(cfg.Width, cfg.Height); err != nil {
		p.Release()
		return nil, err
	}

	for i := range model.Meshes {
		p.geometry = append(p.geometry, uploadGeometry(&model.Meshes[i]))
	}
	p.materials = uploadMaterials(model.Materials)

	p.target = newTexture("render_target")
	p.target.Allocate(cfg.Width, cfg.Height, gl.RGBA32F, gl.RGBA, gl.FLOAT, gl.NEAREST)

	// Sampler uniforms are bound once; the units never change.
	gl.UseProgram(p.traceProg)
	setInt(p.traceProg, "g_position", int32(unitGPosition))
	setInt(p.traceProg, "g_normal", int32(unitGNormal))
	setInt(p.traceProg, "materials", int32(unitMaterials))
	setInt(p.traceProg, "g_material_index", int32(unitGMaterialIndex))
	setInt(p.traceProg, "environment", int32(unitEnvironment))

	if cfg.EnvironmentPath != "" {
		p.envLoader = envmap.Load(cfg.EnvironmentPath)
	}

	p.logger.Noticef(
		"pipeline ready: %d x %d, %d submeshes, %d materials",
		cfg.Width, cfg.Height, len(p.geometry), len(model.Materials),
	)
	return p, nil
}

// RenderFrame runs both pipeline stages for the given camera. The
// result lands in the render target texture.
func (p *Pipeline) RenderFrame(cam *scene.Camera) {
	view := cam.ViewMatrix()
	projection := cam.Aperture.ProjectionMatrix()

	p.gbuffer.render(p.gbufferProg, view, projection, p.geometry)
	p.dispatch(cam)
}

// Target returns the texture holding the last rendered frame.
func (p *Pipeline) Target() *Texture {
	return p.target
}

// Release frees all GPU resources owned by the pipeline.
func (p *Pipeline) Release() {
	if p.gbufferProg != 0 {
		gl.DeleteProgram(p.gbufferProg)
		p.gbufferProg = 0
	}
	if p.traceProg != 0 {
		gl.DeleteProgram(p.traceProg)
		p.traceProg = 0
	}
	if p.gbuffer != nil {
		p.gbuffer.Release()
		p.gbuffer = nil
	}
	for _, buf := range p.geometry {
		buf.Release()
	}
	p.geometry = nil

	p.materials.Release()
	p.environment.Release()
	p.target.Release()
}
