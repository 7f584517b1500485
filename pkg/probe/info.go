// Package probe exports reflection-probe captures as RGBM cubemap DDS files
// and records them in a probe manifest.
package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/EchoTools/probetools/pkg/capture"
	"github.com/EchoTools/probetools/pkg/rgbm"
)

const (
	// CaptureExt is the file extension of capture files.
	CaptureExt = ".hdrc"

	// SidecarExt is the file extension of probe metadata sidecars.
	SidecarExt = ".toml"
)

// Info is the authored metadata of a probe.
type Info struct {
	Name              string     `toml:"name"`
	Position          [3]float64 `toml:"position"`
	Offset            [3]float64 `toml:"offset"`
	Brightness        float64    `toml:"brightness"`
	InfluenceRadius   float64    `toml:"influence_radius"`
	AverageBrightness float64    `toml:"average_brightness"`
}

// DefaultInfo returns metadata for a probe with no sidecar.
func DefaultInfo() Info {
	return Info{
		Brightness:        1,
		AverageBrightness: 1,
	}
}

// Probe pairs metadata with the captured radiance.
type Probe struct {
	Info
	Source rgbm.Source
}

// New returns a probe for src. An empty name is replaced with a random one.
func New(info Info, src rgbm.Source) *Probe {
	if info.Name == "" {
		info.Name = uuid.NewString()
	}
	return &Probe{Info: info, Source: src}
}

// SidecarPath returns the metadata path belonging to a capture file.
func SidecarPath(capturePath string) string {
	return strings.TrimSuffix(capturePath, filepath.Ext(capturePath)) + SidecarExt
}

// LoadInfo reads a sidecar over the defaults.
func LoadInfo(path string) (Info, error) {
	info := DefaultInfo()

	data, err := os.ReadFile(path)
	if err != nil {
		return info, fmt.Errorf("read sidecar: %w", err)
	}
	if err := toml.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parse sidecar %s: %w", path, err)
	}
	return info, nil
}

// SaveInfo writes info as a sidecar.
func SaveInfo(path string, info Info) error {
	data, err := toml.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal sidecar: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Open loads a capture file and its sidecar, if any. Without a sidecar, or
// when the sidecar names no probe, the capture's base name is used.
func Open(capturePath string) (*Probe, error) {
	c, err := capture.LoadFile(capturePath)
	if err != nil {
		return nil, err
	}

	info, err := LoadInfo(SidecarPath(capturePath))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if info.Name == "" {
		base := filepath.Base(capturePath)
		info.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return New(info, c), nil
}

// ScanCaptures walks dir and returns the capture files below it, sorted.
func ScanCaptures(dir string) ([]string, error) {
	var paths []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), CaptureExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}
