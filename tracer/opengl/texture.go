package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Texture is a 2D texture owned by the pipeline. Allocate releases
// any previous storage first; Release is safe to call more than once.
type Texture struct {
	handle uint32
	name   string
	width  int32
	height int32
}

func newTexture(name string) *Texture {
	return &Texture{name: name}
}

// Handle returns the raw GL texture object.
func (t *Texture) Handle() uint32 { return t.handle }

// Width returns the allocated width in texels.
func (t *Texture) Width() int32 { return t.width }

// Height returns the allocated height in texels.
func (t *Texture) Height() int32 { return t.height }

// Allocate creates texture storage without uploading any data.
func (t *Texture) Allocate(width, height int32, internalFormat, format, xtype uint32, filter int32) {
	t.AllocateWithData(width, height, internalFormat, format, xtype, filter, nil)
}

// AllocateWithData creates texture storage and uploads the given
// texels. A nil data pointer leaves the contents undefined.
func (t *Texture) AllocateWithData(width, height int32, internalFormat, format, xtype uint32, filter int32, data unsafe.Pointer) {
	t.Release()

	gl.GenTextures(1, &t.handle)
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(internalFormat), width, height, 0, format, xtype, data)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t.width, t.height = width, height
}

// Bind attaches the texture to the given texture unit. A nil or
// unallocated texture unbinds the unit instead.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(glTextureUnit(unit))
	if t == nil || t.handle == 0 {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
}

// Release frees the GL texture object. Safe on a nil receiver.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	if t.handle != 0 {
		gl.DeleteTextures(1, &t.handle)
		t.handle = 0
		t.width, t.height = 0, 0
	}
}
