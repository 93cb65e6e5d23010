package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/prism-engine/prism/scene"
)

// materialStride is the number of 4-component records per packed
// material: diffuse, specular, emission, roughness.
const materialStride = 4

// PackMaterials flattens the material table into fixed-stride vec4
// records. Record group i holds material i; the material index
// rasterized into the g-buffer is a direct offset into this layout at
// the same stride the compute kernel uses.
func PackMaterials(materials []scene.Material) []float32 {
	packed := make([]float32, 0, len(materials)*materialStride*4)
	for _, mat := range materials {
		packed = append(packed,
			mat.Diffuse.X(), mat.Diffuse.Y(), mat.Diffuse.Z(), 1,
			mat.Specular.X(), mat.Specular.Y(), mat.Specular.Z(), 1,
			mat.Emission.X(), mat.Emission.Y(), mat.Emission.Z(), 1,
			mat.Roughness, mat.Roughness, mat.Roughness, mat.Roughness,
		)
	}
	return packed
}

// uploadMaterials packs the material table and uploads it as a 1-D
// float texture of width 4 x count. An empty table produces a valid
// zero-width allocation; the compute stage never indexes it in that
// case since no geometry can reference a material.
func uploadMaterials(materials []scene.Material) *Texture {
	packed := PackMaterials(materials)

	var ptr unsafe.Pointer
	if len(packed) > 0 {
		ptr = gl.Ptr(packed)
	}

	tex := newTexture("materials")
	tex.AllocateWithData(
		int32(len(materials)*materialStride), 1,
		gl.RGBA32F, gl.RGBA, gl.FLOAT, gl.NEAREST,
		ptr,
	)
	return tex
}
