package opengl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism-engine/prism/scene"
)

func TestPackMaterials(t *testing.T) {
	materials := []scene.Material{
		{
			Name:      "red",
			Diffuse:   mgl32.Vec3{1, 0, 0},
			Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
			Roughness: 0.25,
		},
		{
			Name:      "glow",
			Emission:  mgl32.Vec3{5, 4, 3},
			Roughness: 0.999,
		},
	}

	packed := PackMaterials(materials)

	if len(packed) != len(materials)*materialStride*4 {
		t.Fatalf("expected %d packed floats; got %d", len(materials)*materialStride*4, len(packed))
	}

	expected := []float32{
		// red
		1, 0, 0, 1,
		0.5, 0.5, 0.5, 1,
		0, 0, 0, 1,
		0.25, 0.25, 0.25, 0.25,
		// glow
		0, 0, 0, 1,
		0, 0, 0, 1,
		5, 4, 3, 1,
		0.999, 0.999, 0.999, 0.999,
	}
	for i, want := range expected {
		if packed[i] != want {
			t.Fatalf("expected packed[%d] to be %f; got %f", i, want, packed[i])
		}
	}
}

func TestPackMaterialsEmpty(t *testing.T) {
	if got := PackMaterials(nil); len(got) != 0 {
		t.Fatalf("expected empty pack; got %d floats", len(got))
	}
}

func TestPackMaterialsSharedBetweenSubmeshes(t *testing.T) {
	// Two submeshes referencing the same material contribute nothing
	// extra to the pack: one material is always exactly 4 records.
	materials := []scene.Material{
		{Name: "shared", Diffuse: mgl32.Vec3{0.2, 0.4, 0.6}, Roughness: 0.5},
	}

	packed := PackMaterials(materials)
	if len(packed) != materialStride*4 {
		t.Fatalf("expected %d floats for a single material; got %d", materialStride*4, len(packed))
	}
}

func TestPackMaterialsRecordOffsets(t *testing.T) {
	// Two submeshes sharing one material table: the record group for
	// material index i starts at float offset i * stride * 4, matching
	// the texel offsets the compute kernel fetches.
	materials := []scene.Material{
		{Name: "default", Diffuse: mgl32.Vec3{0.7, 0.7, 0.7}, Roughness: 0.999},
		{Name: "mirror", Specular: mgl32.Vec3{1, 1, 1}, Roughness: 0.001},
	}

	packed := PackMaterials(materials)

	mirrorBase := 1 * materialStride * 4
	specularRecord := packed[mirrorBase+4 : mirrorBase+8]
	for i := 0; i < 3; i++ {
		if specularRecord[i] != 1 {
			t.Fatalf("expected mirror specular component %d to be 1; got %f", i, specularRecord[i])
		}
	}
	if roughness := packed[mirrorBase+12]; roughness != 0.001 {
		t.Fatalf("expected mirror roughness 0.001; got %f", roughness)
	}
}
