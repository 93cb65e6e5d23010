package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prism-engine/prism/log"
)

// faceRef is one resolved corner of a face directive. Missing uv or
// normal references are -1.
type faceRef struct {
	v  int
	vt int
	vn int
}

// vertexKey deduplicates vertices that reference the same
// position/uv/normal triple within a submesh.
type vertexKey struct {
	v  int
	vt int
	vn int
}

type wavefrontReader struct {
	logger log.Logger

	// Ordered material table; index 0 is the default material used by
	// faces that never select one.
	materials []Material
	matIndex  map[string]uint32
	curMat    uint32

	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2

	// Submesh under construction.
	verts   []Vertex
	indices []uint32
	dedup   map[vertexKey]uint32

	meshes []Mesh
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger: log.New("wavefront"),
		materials: []Material{
			{Name: "default", Diffuse: mgl32.Vec3{0.7, 0.7, 0.7}, Roughness: 0.999},
		},
		matIndex: make(map[string]uint32),
		dedup:    make(map[vertexKey]uint32),
	}
}

// LoadModel parses a wavefront OBJ file plus any referenced material
// libraries into an ordered list of indexed, deduplicated submeshes
// and the material table they reference.
func LoadModel(path string) (*Model, error) {
	r := newWavefrontReader()
	r.logger.Noticef("parsing model from %q", path)
	start := time.Now()

	if err := r.parseObj(path); err != nil {
		return nil, err
	}

	model := &Model{Meshes: r.meshes, Materials: r.materials}
	r.logger.Noticef(
		"parsed %d submeshes (%d triangles), %d materials in %d ms",
		len(model.Meshes),
		model.TriangleCount(),
		len(model.Materials),
		time.Since(start).Nanoseconds()/1e6,
	)
	return model, nil
}

func (r *wavefrontReader) parseObj(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("wavefront: %v", err)
	}
	defer f.Close()

	var lineNum int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		switch tokens[0] {
		case "mtllib":
			if len(tokens) != 2 {
				return emitError(path, lineNum, `unsupported syntax for "mtllib"; expected 1 argument; got %d`, len(tokens)-1)
			}
			if err := r.parseMaterials(filepath.Join(filepath.Dir(path), tokens[1])); err != nil {
				return err
			}
		case "v":
			v, err := parseVec3(tokens)
			if err != nil {
				return emitError(path, lineNum, "%v", err)
			}
			r.positions = append(r.positions, v)
		case "vn":
			v, err := parseVec3(tokens)
			if err != nil {
				return emitError(path, lineNum, "%v", err)
			}
			r.normals = append(r.normals, v)
		case "vt":
			v, err := parseVec2(tokens)
			if err != nil {
				return emitError(path, lineNum, "%v", err)
			}
			// Flip V to match the texture origin used by the pipeline.
			r.uvs = append(r.uvs, mgl32.Vec2{v.X(), 1 - v.Y()})
		case "o", "g":
			r.flushMesh()
		case "usemtl":
			if len(tokens) != 2 {
				return emitError(path, lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(tokens)-1)
			}
			index, exists := r.matIndex[tokens[1]]
			if !exists {
				return emitError(path, lineNum, "undefined material %q", tokens[1])
			}
			if index != r.curMat {
				r.flushMesh()
				r.curMat = index
			}
		case "f":
			if err := r.parseFace(tokens); err != nil {
				return emitError(path, lineNum, "%v", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wavefront: %v", err)
	}

	r.flushMesh()
	return nil
}

// parseFace resolves the corners of a face directive, triangulates it
// as a fan and appends the resulting indices to the current submesh.
func (r *wavefrontReader) parseFace(tokens []string) error {
	if len(tokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 vertices; got %d`, len(tokens)-1)
	}

	refs := make([]faceRef, len(tokens)-1)
	for i, token := range tokens[1:] {
		ref, err := r.parseFaceRef(token)
		if err != nil {
			return err
		}
		refs[i] = ref
	}

	corners := make([]uint32, len(refs))
	for i, ref := range refs {
		var normal mgl32.Vec3
		if ref.vn >= 0 {
			normal = r.normals[ref.vn]
		} else {
			// Geometric normal with respect to this face.
			prev := refs[(i-1+len(refs))%len(refs)]
			next := refs[(i+1)%len(refs)]
			e1 := r.positions[next.v].Sub(r.positions[ref.v])
			e2 := r.positions[prev.v].Sub(r.positions[ref.v])
			normal = e1.Cross(e2).Normalize()
		}
		corners[i] = r.addVertex(ref, normal)
	}

	for i := 1; i+1 < len(corners); i++ {
		r.indices = append(r.indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// addVertex appends a vertex for the given face corner, reusing an
// existing one when the same position/uv/normal triple was referenced
// before. Corners with generated normals are never deduplicated since
// their normal depends on the face.
func (r *wavefrontReader) addVertex(ref faceRef, normal mgl32.Vec3) uint32 {
	key := vertexKey{ref.v, ref.vt, ref.vn}
	if ref.vn >= 0 {
		if id, exists := r.dedup[key]; exists {
			return id
		}
	}

	vert := Vertex{Position: r.positions[ref.v], Normal: normal}
	if ref.vt >= 0 {
		vert.UV = r.uvs[ref.vt]
	}

	id := uint32(len(r.verts))
	r.verts = append(r.verts, vert)
	if ref.vn >= 0 {
		r.dedup[key] = id
	}
	return id
}

// parseFaceRef parses a single v, v/vt, v//vn or v/vt/vn corner token.
func (r *wavefrontReader) parseFaceRef(token string) (faceRef, error) {
	ref := faceRef{vt: -1, vn: -1}

	fields := strings.Split(token, "/")
	if len(fields) == 0 || len(fields) > 3 || fields[0] == "" {
		return ref, fmt.Errorf("unsupported face corner %q", token)
	}

	var err error
	ref.v, err = selectFaceCoordIndex(fields[0], len(r.positions))
	if err != nil {
		return ref, err
	}
	if len(fields) > 1 && fields[1] != "" {
		ref.vt, err = selectFaceCoordIndex(fields[1], len(r.uvs))
		if err != nil {
			return ref, err
		}
	}
	if len(fields) > 2 && fields[2] != "" {
		ref.vn, err = selectFaceCoordIndex(fields[2], len(r.normals))
		if err != nil {
			return ref, err
		}
	}
	return ref, nil
}

// flushMesh pushes the submesh under construction, if any, and resets
// the builder state.
func (r *wavefrontReader) flushMesh() {
	if len(r.indices) == 0 {
		return
	}

	r.meshes = append(r.meshes, Mesh{
		Vertices:      r.verts,
		Indices:       r.indices,
		MaterialIndex: r.curMat,
	})
	r.verts = nil
	r.indices = nil
	r.dedup = make(map[vertexKey]uint32)
}

// parseMaterials parses a wavefront MTL library, appending its
// entries to the ordered material table.
func (r *wavefrontReader) parseMaterials(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("wavefront: %v", err)
	}
	defer f.Close()

	var lineNum int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		cur := &r.materials[len(r.materials)-1]
		switch tokens[0] {
		case "newmtl":
			if len(tokens) != 2 {
				return emitError(path, lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(tokens)-1)
			}
			r.materials = append(r.materials, Material{
				Name:      tokens[1],
				Roughness: clampRoughness(1),
			})
			r.matIndex[tokens[1]] = uint32(len(r.materials) - 1)
		case "Kd":
			v, err := parseVec3(tokens)
			if err != nil {
				return emitError(path, lineNum, "%v", err)
			}
			cur.Diffuse = v
		case "Ks":
			v, err := parseVec3(tokens)
			if err != nil {
				return emitError(path, lineNum, "%v", err)
			}
			cur.Specular = v
		case "Ke":
			v, err := parseVec3(tokens)
			if err != nil {
				return emitError(path, lineNum, "%v", err)
			}
			cur.Emission = v
		case "Ns":
			ns, err := parseFloat32(tokens)
			if err != nil {
				return emitError(path, lineNum, "%v", err)
			}
			cur.Roughness = clampRoughness(1 - ns/1000)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wavefront: %v", err)
	}
	return nil
}

func clampRoughness(v float32) float32 {
	if v < 1e-3 {
		return 1e-3
	}
	if v > 0.999 {
		return 0.999
	}
	return v
}

// selectFaceCoordIndex maps a 1-based (or negative, relative) face
// coordinate reference to a 0-based list index.
func selectFaceCoordIndex(token string, listLen int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return -1, fmt.Errorf("could not parse index %q", token)
	}

	switch {
	case index > 0 && index <= listLen:
		return index - 1, nil
	case index < 0 && listLen+index >= 0:
		return listLen + index, nil
	}
	return -1, fmt.Errorf("index out of bounds")
}

func parseFloat32(tokens []string) (float32, error) {
	if len(tokens) != 2 {
		return 0, fmt.Errorf("unsupported syntax for %q; expected 1 argument; got %d", tokens[0], len(tokens)-1)
	}
	v, err := strconv.ParseFloat(tokens[1], 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func parseVec2(tokens []string) (mgl32.Vec2, error) {
	// Some exporters append a third (w) texture coordinate; ignore it.
	if len(tokens) != 3 && len(tokens) != 4 {
		return mgl32.Vec2{}, fmt.Errorf("unsupported syntax for %q; expected 2 arguments; got %d", tokens[0], len(tokens)-1)
	}

	var out mgl32.Vec2
	for i := 0; i < 2; i++ {
		v, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return mgl32.Vec2{}, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseVec3(tokens []string) (mgl32.Vec3, error) {
	if len(tokens) != 4 {
		return mgl32.Vec3{}, fmt.Errorf("unsupported syntax for %q; expected 3 arguments; got %d", tokens[0], len(tokens)-1)
	}

	var out mgl32.Vec3
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func emitError(file string, line int, msgFormat string, args ...interface{}) error {
	return fmt.Errorf("wavefront: [%s: %d] error: %s", file, line, fmt.Sprintf(msgFormat, args...))
}
