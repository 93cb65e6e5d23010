// Package opengl implements the deferred path-tracing pipeline: a
// rasterized geometry pre-pass fills a position/normal/material-index
// g-buffer which a compute dispatch then shades into a fixed-size
// render target.
package opengl

import "github.com/go-gl/gl/v4.5-core/gl"

// Texture units shared between the g-buffer stage and the path-trace
// dispatch. Both sides must agree on these for material lookups to
// read the right data, so they are defined exactly once here and
// assigned to the compute sampler uniforms at pipeline setup.
const (
	unitGPosition      uint32 = 1
	unitGNormal        uint32 = 2
	unitMaterials      uint32 = 3
	unitGMaterialIndex uint32 = 4
	unitEnvironment    uint32 = 5

	// Image unit for the write-only render target.
	unitRenderTarget uint32 = 0
)

// glTextureUnit maps a unit constant to its GL_TEXTUREn enum.
func glTextureUnit(unit uint32) uint32 {
	return gl.TEXTURE0 + unit
}
