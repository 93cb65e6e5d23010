package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoadModelDedupsVertices(t *testing.T) {
	path := writeModel(t, "quad.obj", `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`, "")

	model, err := LoadModel(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(model.Meshes) != 1 {
		t.Fatalf("expected 1 submesh; got %d", len(model.Meshes))
	}

	mesh := model.Meshes[0]
	if len(mesh.Vertices) != 4 {
		t.Fatalf("expected 4 deduplicated vertices; got %d", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 6 {
		t.Fatalf("expected 6 indices; got %d", len(mesh.Indices))
	}
	if mesh.MaterialIndex != 0 {
		t.Fatalf("expected default material index 0; got %d", mesh.MaterialIndex)
	}
}

func TestLoadModelMaterialSwitchSplitsSubmeshes(t *testing.T) {
	path := writeModel(t, "split.obj", `
mtllib split.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
usemtl red
f 1 2 3
usemtl glow
f 1 3 4
`, `
newmtl red
Kd 1 0 0
Ks 0.5 0.5 0.5
Ns 10

newmtl glow
Kd 0 0 0
Ke 5 5 5
`)

	model, err := LoadModel(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(model.Meshes) != 2 {
		t.Fatalf("expected 2 submeshes; got %d", len(model.Meshes))
	}
	if model.Meshes[0].MaterialIndex != 1 || model.Meshes[1].MaterialIndex != 2 {
		t.Fatalf(
			"expected submesh material indices 1 and 2; got %d and %d",
			model.Meshes[0].MaterialIndex, model.Meshes[1].MaterialIndex,
		)
	}

	// Index 0 is always the implicit default material.
	if len(model.Materials) != 3 {
		t.Fatalf("expected 3 materials; got %d", len(model.Materials))
	}
	if model.Materials[0].Name != "default" {
		t.Fatalf("expected default material at index 0; got %q", model.Materials[0].Name)
	}

	red := model.Materials[1]
	if !vec3Near(red.Diffuse, mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected red diffuse (1, 0, 0); got %v", red.Diffuse)
	}
	if !near(red.Roughness, 0.99) {
		t.Fatalf("expected roughness 0.99 for Ns 10; got %f", red.Roughness)
	}

	glow := model.Materials[2]
	if !glow.Emissive() {
		t.Fatalf("expected material %q to be emissive", glow.Name)
	}
	if got := model.EmissiveMeshCount(); got != 1 {
		t.Fatalf("expected 1 emissive submesh; got %d", got)
	}
}

func TestLoadModelNegativeIndices(t *testing.T) {
	path := writeModel(t, "neg.obj", `
v 0 0 0
v 1 0 0
v 1 1 0
f -3 -2 -1
`, "")

	model, err := LoadModel(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := model.TriangleCount(); got != 1 {
		t.Fatalf("expected 1 triangle; got %d", got)
	}
}

func TestLoadModelGeneratesMissingNormals(t *testing.T) {
	path := writeModel(t, "nonorm.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`, "")

	model, err := LoadModel(path)
	if err != nil {
		t.Fatal(err)
	}

	// CCW winding in the XY plane yields a +Z geometric normal.
	for i, vert := range model.Meshes[0].Vertices {
		if !vec3Near(vert.Normal, mgl32.Vec3{0, 0, 1}) {
			t.Fatalf("[vertex %d] expected generated normal (0, 0, 1); got %v", i, vert.Normal)
		}
	}
}

func TestLoadModelErrors(t *testing.T) {
	type spec struct {
		obj      string
		expError string
	}

	specs := []spec{
		{
			obj:      "v 1 2\n",
			expError: `[%s: 1] error: unsupported syntax for "v"; expected 3 arguments; got 2`,
		},
		{
			obj:      "v 0 0 0\nf 1 2 3\n",
			expError: `[%s: 2] error: index out of bounds`,
		},
		{
			obj:      "usemtl missing\n",
			expError: `[%s: 1] error: undefined material "missing"`,
		},
		{
			obj:      "v 0 0 0\n\nf 1 1\n",
			expError: `[%s: 3] error: unsupported syntax for "f"; expected at least 3 vertices; got 2`,
		},
	}

	for idx, sp := range specs {
		path := writeModel(t, "bad.obj", sp.obj, "")

		_, err := LoadModel(path)
		if err == nil {
			t.Fatalf("[spec %d] expected a parse error", idx)
		}

		want := strings.Replace(sp.expError, "%s", path, 1)
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("[spec %d] expected error to contain %q; got %q", idx, want, err.Error())
		}
	}
}

// writeModel writes an obj file (and optionally an mtl library next to
// it) into a fresh temp dir and returns the obj path.
func writeModel(t *testing.T, name, objData, mtlData string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(objData), 0644); err != nil {
		t.Fatal(err)
	}

	if mtlData != "" {
		mtlName := strings.TrimSuffix(name, filepath.Ext(name)) + ".mtl"
		if err := os.WriteFile(filepath.Join(dir, mtlName), []byte(mtlData), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return path
}
