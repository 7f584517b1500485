package cubemap

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/EchoTools/probetools/pkg/dds"
	"github.com/EchoTools/probetools/pkg/rgbm"
	"github.com/EchoTools/probetools/pkg/texture"
)

type uniformSource struct {
	size   int
	colors [rgbm.NumFaces]rgbm.LinearColor
}

func (s *uniformSource) Size() int    { return s.size }
func (s *uniformSource) NumMips() int { return rgbm.NumMipsFor(s.size) }
func (s *uniformSource) Face(mip, face int) []rgbm.LinearColor {
	n := s.size >> mip
	out := make([]rgbm.LinearColor, n*n)
	for i := range out {
		out[i] = s.colors[face]
	}
	return out
}

var faceColors = [rgbm.NumFaces]rgbm.LinearColor{
	{R: 1, A: 1},
	{G: 1, A: 1},
	{B: 1, A: 1},
	{R: 4, G: 4, A: 1},
	{G: 4, B: 4, A: 1},
	{R: 4, B: 4, A: 1},
}

func TestTransformBijection(t *testing.T) {
	for face := 0; face < rgbm.NumFaces; face++ {
		for _, size := range []int{1, 2, 3, 4, 7, 16} {
			seen := make([]bool, size*size)
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					dx, dy := Transform(face, size, x, y)
					require.True(t, dx >= 0 && dx < size && dy >= 0 && dy < size,
						"face %d size %d: (%d,%d) maps outside the grid to (%d,%d)", face, size, x, y, dx, dy)
					require.False(t, seen[dy*size+dx],
						"face %d size %d: (%d,%d) collides at (%d,%d)", face, size, x, y, dx, dy)
					seen[dy*size+dx] = true
				}
			}
		}
	}
}

func TestTransform(t *testing.T) {
	tests := []struct {
		face   int
		x, y   int
		dx, dy int
	}{
		{0, 0, 0, 0, 3},
		{0, 1, 0, 0, 2},
		{1, 0, 0, 3, 0},
		{1, 0, 1, 2, 0},
		{2, 1, 2, 1, 2},
		{3, 1, 0, 1, 3},
		{4, 3, 1, 3, 1},
		{5, 0, 1, 3, 2},
	}

	for _, tt := range tests {
		dx, dy := Transform(tt.face, 4, tt.x, tt.y)
		assert.Equal(t, [2]int{tt.dx, tt.dy}, [2]int{dx, dy}, "face %d (%d,%d)", tt.face, tt.x, tt.y)
	}
}

func TestRemap(t *testing.T) {
	// 2x2 face, texel n filled with n
	src := []byte{
		0, 0, 0, 0, 1, 1, 1, 1,
		2, 2, 2, 2, 3, 3, 3, 3,
	}

	flipped := Remap(src, 3, 2)
	assert.Equal(t, []byte{
		2, 2, 2, 2, 3, 3, 3, 3,
		0, 0, 0, 0, 1, 1, 1, 1,
	}, flipped)

	assert.Equal(t, src, Remap(src, 2, 2))
	assert.Equal(t, []byte{0, 0, 0, 0}, src[:4], "Remap modified its input")
}

func TestBuildImage(t *testing.T) {
	src := &uniformSource{size: 8, colors: faceColors}
	enc, err := rgbm.EncodeCubemap(src)
	require.NoError(t, err)

	img, err := BuildImage(enc)
	require.NoError(t, err)

	assert.Equal(t, dds.TypeCubemap, img.Type())
	assert.Equal(t, dds.FormatBGRA, img.Format())
	assert.Equal(t, 4, img.Components())
	assert.Equal(t, 8, img.Width())
	assert.Equal(t, 3, img.NumMipmaps())

	// slot order is +X, -X, -Z, +Z, +Y, -Y
	order := []int{0, 1, 5, 4, 2, 3}
	for slot, face := range order {
		c := rgbm.Encode(faceColors[face])
		want := []byte{c.B, c.G, c.R, c.A}
		center := (3*8 + 4) * 4
		assert.Equal(t, want, img.Face(slot).Pixels()[center:center+4], "slot %d", slot)
	}

	var buf bytes.Buffer
	require.NoError(t, img.Save(&buf))
	loaded, err := dds.Load(&buf)
	require.NoError(t, err)
	for i := 0; i < dds.NumFaces; i++ {
		assert.True(t, loaded.Face(i).Equal(img.Face(i)), "face %d", i)
	}
}

func TestBuildImageMirrorsNegativeY(t *testing.T) {
	src := &uniformSource{size: 4, colors: faceColors}
	enc, err := rgbm.EncodeCubemap(src)
	require.NoError(t, err)

	img, err := BuildImage(enc)
	require.NoError(t, err)

	want := texture.NewTexture(4, 4, 1, Remap(enc.FaceBGRA(0, rgbm.FaceNegativeY), rgbm.FaceNegativeY, 4))
	want.FlipX()
	assert.Equal(t, want.Pixels(), img.Face(5).Pixels())
}

func TestDumpFaces(t *testing.T) {
	src := &uniformSource{size: 4, colors: faceColors}
	enc, err := rgbm.EncodeCubemap(src)
	require.NoError(t, err)
	img, err := BuildImage(enc)
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := DumpFaces(dir, "probe", img)
	require.NoError(t, err)
	require.Len(t, paths, 6)

	f, err := os.Open(paths[2])
	require.NoError(t, err)
	defer f.Close()
	m, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Bounds().Dx())
	assert.Equal(t, 4, m.Bounds().Dy())
}

func TestDumpFacesUnsupported(t *testing.T) {
	img := &dds.Image{}
	img.CreateFlat(dds.FormatDXT1, 3, texture.NewTexture(4, 4, 1, make([]byte, 8)))

	_, err := DumpFaces(t.TempDir(), "probe", img)
	assert.ErrorIs(t, err, dds.ErrUnsupportedFormat)
}
