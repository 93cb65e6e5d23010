// Package scene holds the geometry data model consumed by the render
// pipeline and the camera that views it. Models are produced by the
// wavefront reader; the pipeline never parses files itself.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Vertex is a single vertex as consumed by the g-buffer pass. The
// field order matches the interleaved attribute layout uploaded to
// the GPU.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Material describes one entry of the ordered material table. The
// table index of an entry is the index rasterized into the g-buffer
// and used by the compute stage for packed-buffer lookups.
type Material struct {
	Name string

	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Emission mgl32.Vec3

	// Surface roughness in (0, 1).
	Roughness float32
}

// Emissive reports whether the material contributes light.
func (m Material) Emissive() bool {
	return m.Emission.Len() > 0
}

// Mesh is an indexed triangle submesh. MaterialIndex points into the
// model's material table.
type Mesh struct {
	Vertices      []Vertex
	Indices       []uint32
	MaterialIndex uint32
}

// Model is an ordered collection of submeshes plus the material table
// they index into. Submeshes are uploaded and drawn in slice order.
type Model struct {
	Meshes    []Mesh
	Materials []Material
}

// EmissiveMeshCount returns the number of submeshes bound to an
// emissive material.
func (m *Model) EmissiveMeshCount() int {
	var count int
	for _, mesh := range m.Meshes {
		if m.Materials[mesh.MaterialIndex].Emissive() {
			count++
		}
	}
	return count
}

// TriangleCount returns the total triangle count across submeshes.
func (m *Model) TriangleCount() int {
	var count int
	for _, mesh := range m.Meshes {
		count += len(mesh.Indices) / 3
	}
	return count
}
