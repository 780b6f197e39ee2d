package titan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type objVertex struct {
	pos, uv, normal int
}

// ParseOBJ reads the v, vt, vn and f records of a Wavefront OBJ stream into
// a single-frame mesh. Polygons are fanned into triangles. Faces without
// normals get flat normals.
func ParseOBJ(r io.Reader) (*MeshData, error) {
	var (
		positions []mgl32.Vec3
		uvs       []mgl32.Vec2
		normals   []mgl32.Vec3
		corners   []objVertex
	)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			uvs = append(uvs, mgl32.Vec2{v[0], v[1]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			normals = append(normals, mgl32.Vec3{v[0], v[1], v[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face with %d corners: %w", line, len(fields)-1, ErrFatalSetup)
			}
			face := make([]objVertex, 0, len(fields)-1)
			for _, f := range fields[1:] {
				c, err := parseFaceCorner(f, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				face = append(face, c)
			}
			for i := 1; i+1 < len(face); i++ {
				corners = append(corners, face[0], face[i], face[i+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %v: %w", err, ErrFatalSetup)
	}

	outPos := make([]mgl32.Vec3, len(corners))
	outNorm := make([]mgl32.Vec3, len(corners))
	var outUV []mgl32.Vec2
	if len(uvs) > 0 {
		outUV = make([]mgl32.Vec2, len(corners))
	}
	for i, c := range corners {
		outPos[i] = positions[c.pos]
		if c.uv >= 0 && outUV != nil {
			outUV[i] = uvs[c.uv]
		}
	}
	for tri := 0; tri+2 < len(corners); tri += 3 {
		flat := flatNormal(outPos[tri], outPos[tri+1], outPos[tri+2])
		for k := tri; k < tri+3; k++ {
			if corners[k].normal >= 0 {
				outNorm[k] = normals[corners[k].normal]
			} else {
				outNorm[k] = flat
			}
		}
	}

	data := &MeshData{}
	if err := data.AddFrame(outPos, outNorm); err != nil {
		return nil, err
	}
	data.SetUVs(outUV)
	return data, nil
}

// LoadOBJ parses an OBJ file.
func LoadOBJ(path string) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %v: %w", err, ErrFatalSetup)
	}
	defer f.Close()

	data, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// LoadMorphOBJ loads base_1.obj .. base_n.obj as the morph frames of one
// mesh. Uvs come from the first file and every file must have the same
// vertex count.
func LoadMorphOBJ(base string, frames int) (*MeshData, error) {
	if frames < 1 {
		return nil, fmt.Errorf("morph mesh %s needs at least one frame: %w", base, ErrConfig)
	}
	data, err := LoadOBJ(base + "_1.obj")
	if err != nil {
		return nil, err
	}
	for i := 2; i <= frames; i++ {
		next, err := LoadOBJ(base + "_" + strconv.Itoa(i) + ".obj")
		if err != nil {
			return nil, err
		}
		if err := data.AddFrame(next.Positions(0), next.Normals(0)); err != nil {
			return nil, fmt.Errorf("%s_%d.obj: %w", base, i, err)
		}
	}
	return data, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d: %w", n, len(fields), ErrFatalSetup)
	}
	out := make([]float32, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", fields[i], ErrFatalSetup)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFaceCorner resolves "p", "p/t", "p//n" or "p/t/n" to zero based
// indices, -1 for an absent element. Negative OBJ indices count from the end.
func parseFaceCorner(s string, numPos, numUV, numNorm int) (objVertex, error) {
	parts := strings.Split(s, "/")
	c := objVertex{pos: -1, uv: -1, normal: -1}
	counts := [3]int{numPos, numUV, numNorm}
	dst := [3]*int{&c.pos, &c.uv, &c.normal}
	for i, p := range parts {
		if i > 2 {
			break
		}
		if p == "" {
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return c, fmt.Errorf("bad face index %q: %w", s, ErrFatalSetup)
		}
		if idx < 0 {
			idx = counts[i] + idx
		} else {
			idx--
		}
		if idx < 0 || idx >= counts[i] {
			return c, fmt.Errorf("face index %q out of range: %w", s, ErrFatalSetup)
		}
		*dst[i] = idx
	}
	if c.pos < 0 {
		return c, fmt.Errorf("face corner %q has no position: %w", s, ErrFatalSetup)
	}
	return c, nil
}

func flatNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}
