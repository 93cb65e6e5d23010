package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/prism-engine/prism/scene"
)

// GeometryBuffers holds the GPU-resident vertex and index buffers for
// one submesh plus the material index recorded when the packed
// material buffer was built. Buffers are immutable after upload.
type GeometryBuffers struct {
	vao uint32
	vbo uint32
	ebo uint32

	indexCount    int32
	materialIndex uint32
}

// uploadGeometry creates the interleaved vertex/index buffers for a
// submesh.
func uploadGeometry(mesh *scene.Mesh) *GeometryBuffers {
	buf := &GeometryBuffers{
		indexCount:    int32(len(mesh.Indices)),
		materialIndex: mesh.MaterialIndex,
	}

	gl.GenVertexArrays(1, &buf.vao)
	gl.GenBuffers(1, &buf.vbo)
	gl.GenBuffers(1, &buf.ebo)

	gl.BindVertexArray(buf.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferData(
		gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(unsafe.Sizeof(scene.Vertex{})),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW,
	)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
	gl.BufferData(
		gl.ELEMENT_ARRAY_BUFFER,
		len(mesh.Indices)*4,
		gl.Ptr(mesh.Indices),
		gl.STATIC_DRAW,
	)

	stride := int32(unsafe.Sizeof(scene.Vertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, unsafe.Offsetof(scene.Vertex{}.Normal))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, unsafe.Offsetof(scene.Vertex{}.UV))

	gl.BindVertexArray(0)
	return buf
}

// draw issues the indexed draw for this submesh. The caller binds the
// program and per-draw uniforms.
func (g *GeometryBuffers) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
}

// Release frees the vertex array and its buffers.
func (g *GeometryBuffers) Release() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
		g.vao, g.vbo, g.ebo = 0, 0, 0
	}
}
