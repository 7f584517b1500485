package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Export.Flip)
	assert.GreaterOrEqual(t, cfg.Export.Workers, 1)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probetool.toml")
	data := []byte(`
[export]
output_dir = "probes"
flip = false
workers = 3

[log]
level = "debug"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "probes", cfg.Export.OutputDir)
	assert.False(t, cfg.Export.Flip)
	assert.Equal(t, 3, cfg.Export.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)

	// untouched keys keep their defaults
	assert.Equal(t, Default().Export.QueueSize, cfg.Export.QueueSize)
	assert.Equal(t, Default().Capture.CompressionLevel, cfg.Capture.CompressionLevel)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Syntax", "[export\nworkers = 1"},
		{"Workers", "[export]\nworkers = 0"},
		{"QueueSize", "[export]\nqueue_size = -1"},
		{"OutputDir", "[export]\noutput_dir = \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, Parse([]byte(tt.data), &cfg))
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Export.DumpFaces = true
	data, err := cfg.Marshal()
	require.NoError(t, err)

	var parsed Config
	require.NoError(t, Parse(data, &parsed))
	assert.Equal(t, cfg, parsed)
}
