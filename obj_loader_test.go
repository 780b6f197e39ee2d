package titan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJ_FansPolygons(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Equal(t, 1, data.FrameCount())
	assert.Equal(t, 6, data.VertexCount())
	pos := data.Positions(0)
	assert.Equal(t, pos[0], pos[3])
	assert.InDeltaSlice(t, []float32{1, 1, 0}, vec3s(pos[2]), 1e-6)
	assert.Len(t, data.UVs(), 6)
	for _, n := range data.Normals(0) {
		assert.InDeltaSlice(t, []float32{0, 0, 1}, vec3s(n), 1e-6)
	}
}

func TestParseOBJ_FlatNormalsAndNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 0 -1\nf -3 -2 -1\n"
	data, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, data.VertexCount())
	assert.Nil(t, data.UVs())
	for _, n := range data.Normals(0) {
		assert.InDeltaSlice(t, []float32{0, 1, 0}, vec3s(n), 1e-6)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"short vertex":  "v 1 2\n",
		"bad number":    "v 1 x 3\n",
		"two corners":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"out of range":  "v 0 0 0\nf 1 2 3\n",
		"no position":   "v 0 0 0\nf /1 1 1\n",
		"bad face item": "v 0 0 0\nf a 1 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(src))
			assert.ErrorIs(t, err, ErrFatalSetup)
		})
	}
}

func writeTriangle(t *testing.T, path string, z float32) {
	t.Helper()
	src := fmt.Sprintf("v 0 0 %[1]g\nv 1 0 %[1]g\nv 0 1 %[1]g\nf 1 2 3\n", z)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestLoadMorphOBJ(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "blob")
	writeTriangle(t, base+"_1.obj", 0)
	writeTriangle(t, base+"_2.obj", 2)

	data, err := LoadMorphOBJ(base, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, data.FrameCount())
	assert.InDelta(t, 2, data.Positions(1)[0].Z(), 1e-6)

	_, err = LoadMorphOBJ(base, 3)
	assert.ErrorIs(t, err, ErrFatalSetup)

	_, err = LoadMorphOBJ(base, 0)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadMorphOBJ_VertexCountMismatch(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "bad")
	writeTriangle(t, base+"_1.obj", 0)
	require.NoError(t, os.WriteFile(base+"_2.obj", []byte(quadOBJ), 0o644))

	_, err := LoadMorphOBJ(base, 2)
	assert.ErrorIs(t, err, ErrConfig)
}
