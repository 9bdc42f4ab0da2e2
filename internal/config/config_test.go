package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/galaxygen/galaxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "galaxygen.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:8080", cfg.Address())
	assert.Equal(t, 75.0, cfg.View.FOV)
	assert.Equal(t, 300.0, cfg.View.Distance)
	assert.Equal(t, 2_000_000, cfg.View.MaxCount)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, galaxy.DefaultParams(), s.Galaxy)
}

func TestLoadFullFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
galaxy {
  mode  = "disk"
  count = 1200
  seed  = 7
}

view {
  width     = 640
  height    = 480
  max_count = 5000
}

server {
  port            = 9090
  allowed_origins = ["http://localhost:3000"]
  rotation_fps    = 20
}

preset "halo" {
  mode   = "sphere"
  radius = 400
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, galaxy.Disk, s.Galaxy.Mode)
	assert.Equal(t, 1200, s.Galaxy.Count)
	assert.Equal(t, uint32(7), s.Galaxy.Seed)
	assert.Equal(t, 200.0, s.Galaxy.Radius)

	assert.Equal(t, 640, cfg.View.Width)
	assert.Equal(t, 5000, cfg.View.MaxCount)
	assert.Equal(t, 75.0, cfg.View.FOV)
	assert.Equal(t, "localhost:9090", cfg.Address())
	assert.Equal(t, 50*time.Millisecond, cfg.RotationInterval())

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"disk", "halo", "nebula", "sphere", "spiral"}, reg.Names())
	halo, err := reg.Get("halo")
	require.NoError(t, err)
	assert.Equal(t, 400.0, *halo.Radius)
}

func TestLoadSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `galaxy { count = `))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `galaxy { galaxies = 2 }`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"bad port", `server { port = 70000 }`},
		{"bad fov", `view { fov = 190 }`},
		{"bad fps", `server { rotation_fps = 500 }`},
		{"invalid galaxy", `galaxy { radius = -1 }`},
		{"max_count above generator limit", `view { max_count = 60000000 }`},
		{"negative max_count", `view { max_count = -1 }`},
		{"count above max_count", "view { max_count = 100 }\ngalaxy { count = 500 }"},
		{"count overflowing", `galaxy { count = 4000000000000000000 }`},
		{"unknown mode", `galaxy { mode = "ring" }`},
		{"duplicate preset", "preset \"a\" { count = 1 }\npreset \"a\" { count = 2 }"},
		{"bad preset", `preset "a" { color_end = "blue-ish" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}
