package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoTools/probetools/pkg/capture"
	"github.com/EchoTools/probetools/pkg/dds"
	"github.com/EchoTools/probetools/pkg/rgbm"
)

func testCapture(t *testing.T, size int, v rgbm.LinearColor) *capture.Cubemap {
	t.Helper()
	c, err := capture.NewCubemap(size)
	require.NoError(t, err)
	for mip := 0; mip < c.NumMips(); mip++ {
		for face := 0; face < rgbm.NumFaces; face++ {
			c.Fill(mip, face, v)
		}
	}
	return c
}

func TestNewGeneratesName(t *testing.T) {
	p := New(Info{}, testCapture(t, 2, rgbm.LinearColor{A: 1}))
	_, err := uuid.Parse(p.Name)
	assert.NoError(t, err)

	named := New(Info{Name: "hangar"}, p.Source)
	assert.Equal(t, "hangar", named.Name)
}

func TestSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lobby.toml")

	info := Info{
		Name:              "lobby",
		Position:          [3]float64{1, 2, 3},
		Offset:            [3]float64{0, 0.5, 0},
		Brightness:        1.5,
		InfluenceRadius:   12,
		AverageBrightness: 0.8,
	}
	require.NoError(t, SaveInfo(path, info))

	got, err := LoadInfo(path)
	require.NoError(t, err)
	assert.Equal(t, info, got)

	t.Run("PartialKeepsDefaults", func(t *testing.T) {
		p := filepath.Join(dir, "partial.toml")
		require.NoError(t, os.WriteFile(p, []byte("influence_radius = 4.0\n"), 0644))
		got, err := LoadInfo(p)
		require.NoError(t, err)
		assert.Equal(t, 4.0, got.InfluenceRadius)
		assert.Equal(t, 1.0, got.Brightness)
	})

	t.Run("Malformed", func(t *testing.T) {
		p := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(p, []byte("brightness = \"x\"\n"), 0644))
		_, err := LoadInfo(p)
		assert.Error(t, err)
	})

	assert.Equal(t, filepath.Join("a", "b.toml"), SidecarPath(filepath.Join("a", "b.hdrc")))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	c := testCapture(t, 4, rgbm.LinearColor{R: 1, G: 1, B: 1, A: 1})

	bare := filepath.Join(dir, "bare.hdrc")
	require.NoError(t, capture.SaveFile(bare, c))
	p, err := Open(bare)
	require.NoError(t, err)
	assert.Equal(t, "bare", p.Name)
	assert.Equal(t, 1.0, p.Brightness)
	assert.Equal(t, 4, p.Source.Size())

	withInfo := filepath.Join(dir, "withinfo.hdrc")
	require.NoError(t, capture.SaveFile(withInfo, c))
	require.NoError(t, SaveInfo(SidecarPath(withInfo), Info{Name: "atrium", InfluenceRadius: 3}))
	p, err = Open(withInfo)
	require.NoError(t, err)
	assert.Equal(t, "atrium", p.Name)
	assert.Equal(t, 3.0, p.InfluenceRadius)

	_, err = Open(filepath.Join(dir, "missing.hdrc"))
	assert.Error(t, err)
}

func TestScanCaptures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	for _, name := range []string{"b.hdrc", "a.HDRC", "sub/c.hdrc", "notes.txt", "a.toml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	paths, err := ScanCaptures(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.HDRC"),
		filepath.Join(dir, "b.hdrc"),
		filepath.Join(dir, "sub", "c.hdrc"),
	}, paths)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	p := New(Info{Name: "probe0", Brightness: 2}, testCapture(t, 8, rgbm.LinearColor{R: 0.25, G: 0.5, B: 1, A: 1}))

	opts := DefaultOptions(dir)
	opts.DumpFaces = true
	entry, err := Export(p, opts)
	require.NoError(t, err)

	assert.Equal(t, "probe0", entry.Name)
	assert.Equal(t, "probe0.dds", entry.File)
	assert.Equal(t, 8, entry.Size)
	assert.Equal(t, 4, entry.MipCount)
	assert.Equal(t, p.Info, entry.Info())

	img, err := dds.LoadFile(filepath.Join(dir, entry.File))
	require.NoError(t, err)
	assert.Equal(t, dds.TypeCubemap, img.Type())
	assert.Equal(t, dds.FormatBGRA, img.Format())
	assert.Equal(t, 6, img.NumFaces())
	assert.Equal(t, 8, img.Width())
	assert.Equal(t, 3, img.NumMipmaps())

	// uniform input encodes to one color on every texel
	px := img.Face(0).Pixels()
	for i := 4; i < len(px); i += 4 {
		require.Equal(t, px[:4], px[i:i+4])
	}

	for i := 0; i < 6; i++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("probe0_face%d.bmp", i)))
		assert.NoError(t, err)
	}
}

func TestExportFlipMatchesLoad(t *testing.T) {
	c := testCapture(t, 4, rgbm.LinearColor{R: 2, A: 1})
	c.SetTexel(0, rgbm.FacePositiveZ, 0, 0, rgbm.LinearColor{G: 8, A: 1})

	flipped := t.TempDir()
	plain := t.TempDir()
	_, err := Export(New(Info{Name: "p"}, c), Options{OutputDir: flipped, Flip: true})
	require.NoError(t, err)
	_, err = Export(New(Info{Name: "p"}, c), Options{OutputDir: plain, Flip: false})
	require.NoError(t, err)

	a, err := dds.LoadFile(filepath.Join(flipped, "p.dds"), dds.WithFlip(true))
	require.NoError(t, err)
	b, err := dds.LoadFile(filepath.Join(plain, "p.dds"), dds.WithFlip(false))
	require.NoError(t, err)
	for i := 0; i < a.NumFaces(); i++ {
		assert.True(t, a.Face(i).Equal(b.Face(i)), "face %d", i)
	}
}

func TestExportInvalidSource(t *testing.T) {
	p := New(Info{Name: "broken"}, &badSource{})
	_, err := Export(p, DefaultOptions(t.TempDir()))
	assert.ErrorIs(t, err, rgbm.ErrInvalidSize)
}

type badSource struct{}

func (badSource) Size() int                             { return 3 }
func (badSource) NumMips() int                          { return 2 }
func (badSource) Face(mip, face int) []rgbm.LinearColor { return nil }

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	var probes []*Probe
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		probes = append(probes, New(Info{Name: name, InfluenceRadius: 5}, testCapture(t, 4, rgbm.LinearColor{B: 1, A: 1})))
	}
	probes = append(probes, New(Info{Name: "delta"}, &badSource{}))

	opts := DefaultOptions(dir)
	opts.Workers = 3
	opts.QueueSize = 1
	m, err := ExportAll(context.Background(), probes, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, rgbm.ErrInvalidSize)

	require.Len(t, m.Probes, 3)
	assert.Equal(t, "alpha", m.Probes[0].Name)
	assert.Equal(t, "bravo", m.Probes[1].Name)
	assert.Equal(t, "charlie", m.Probes[2].Name)

	read, err := ReadManifest(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	assert.Equal(t, m, read)

	e, ok := read.Lookup("bravo")
	require.True(t, ok)
	assert.Equal(t, "bravo.dds", e.File)
	assert.Equal(t, 3, e.MipCount)
	assert.Equal(t, 5.0, e.InfluenceRadius)

	_, ok = read.Lookup("delta")
	assert.False(t, ok)
}

func TestManifestPut(t *testing.T) {
	m := &Manifest{}
	m.Put(Entry{Name: "b", Size: 4})
	m.Put(Entry{Name: "a", Size: 8})
	m.Put(Entry{Name: "b", Size: 16})

	require.Len(t, m.Probes, 2)
	assert.Equal(t, "a", m.Probes[0].Name)
	assert.Equal(t, 16, m.Probes[1].Size)
}

func TestReadManifestMissing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), ManifestName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportAllDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	src := testCapture(t, 2, rgbm.LinearColor{R: 1, A: 1})
	probes := []*Probe{
		New(Info{Name: "hangar"}, src),
		New(Info{Name: "lobby"}, src),
		New(Info{Name: "Hangar"}, src),
	}

	m, err := ExportAll(context.Background(), probes, DefaultOptions(dir))
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Nil(t, m)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenSameBaseNameInSubdirs(t *testing.T) {
	dir := t.TempDir()
	c := testCapture(t, 2, rgbm.LinearColor{G: 1, A: 1})
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
		require.NoError(t, capture.SaveFile(filepath.Join(dir, sub, "x.hdrc"), c))
	}

	paths, err := ScanCaptures(dir)
	require.NoError(t, err)
	var probes []*Probe
	for _, path := range paths {
		p, err := Open(path)
		require.NoError(t, err)
		probes = append(probes, p)
	}

	_, err = ExportAll(context.Background(), probes, DefaultOptions(filepath.Join(dir, "out")))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestExportAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probes := []*Probe{New(Info{Name: "a"}, testCapture(t, 2, rgbm.LinearColor{A: 1}))}
	m, err := ExportAll(ctx, probes, DefaultOptions(t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Probes)
}
