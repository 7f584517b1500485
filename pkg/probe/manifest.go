package probe

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the file name of the probe manifest in an output directory.
const ManifestName = "probes.toml"

// Entry describes one exported probe.
type Entry struct {
	Name              string     `toml:"name"`
	File              string     `toml:"file"`
	Size              int        `toml:"size"`
	MipCount          int        `toml:"mip_count"`
	Position          [3]float64 `toml:"position"`
	Offset            [3]float64 `toml:"offset"`
	Brightness        float64    `toml:"brightness"`
	InfluenceRadius   float64    `toml:"influence_radius"`
	AverageBrightness float64    `toml:"average_brightness"`
}

func newEntry(info Info, file string, size, mips int) Entry {
	return Entry{
		Name:              info.Name,
		File:              file,
		Size:              size,
		MipCount:          mips,
		Position:          info.Position,
		Offset:            info.Offset,
		Brightness:        info.Brightness,
		InfluenceRadius:   info.InfluenceRadius,
		AverageBrightness: info.AverageBrightness,
	}
}

// Info returns the probe metadata recorded in the entry.
func (e Entry) Info() Info {
	return Info{
		Name:              e.Name,
		Position:          e.Position,
		Offset:            e.Offset,
		Brightness:        e.Brightness,
		InfluenceRadius:   e.InfluenceRadius,
		AverageBrightness: e.AverageBrightness,
	}
}

// Manifest lists the probes of an output directory.
type Manifest struct {
	Probes []Entry `toml:"probe"`
}

// Lookup returns the entry named name.
func (m *Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.Probes {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Put adds e, replacing any entry with the same name, and keeps the entries
// sorted by name.
func (m *Manifest) Put(e Entry) {
	for i := range m.Probes {
		if m.Probes[i].Name == e.Name {
			m.Probes[i] = e
			return
		}
	}
	m.Probes = append(m.Probes, e)
	sort.Slice(m.Probes, func(i, j int) bool { return m.Probes[i].Name < m.Probes[j].Name })
}

// ReadManifest reads and parses a manifest from a file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m := &Manifest{}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

// WriteManifest writes a manifest to a file.
func WriteManifest(path string, m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
