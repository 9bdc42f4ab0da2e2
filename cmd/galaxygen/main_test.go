package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("galaxygen"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestLoadEnvironmentLayersPresetAndFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "galaxygen.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
galaxy {
  count = 900
}

preset "ring" {
  mode      = "disk"
  thickness = 0
}
`), 0o644))

	count := 123
	globals := &Globals{Config: cfgPath, LogLevel: "info"}

	env, err := loadEnvironmentWithLogger(globals, &GalaxyFlags{}, quiet())
	require.NoError(t, err)
	assert.Equal(t, 900, env.settings.Galaxy.Count)
	assert.Contains(t, env.registry.Names(), "ring")

	env, err = loadEnvironmentWithLogger(globals, &GalaxyFlags{Preset: "ring", Count: &count}, quiet())
	require.NoError(t, err)
	assert.Equal(t, galaxy.Disk, env.settings.Galaxy.Mode)
	assert.Equal(t, 0.0, env.settings.Galaxy.Thickness)
	assert.Equal(t, 123, env.settings.Galaxy.Count)
}

func TestLoadEnvironmentErrors(t *testing.T) {
	t.Parallel()

	globals := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl"), LogLevel: "info"}

	_, err := loadEnvironmentWithLogger(globals, &GalaxyFlags{Preset: "andromeda"}, quiet())
	assert.ErrorIs(t, err, preset.ErrUnknownPreset)

	radius := -1.0
	_, err = loadEnvironmentWithLogger(globals, &GalaxyFlags{Radius: &radius}, quiet())
	assert.ErrorIs(t, err, galaxy.ErrInvalidParameter)

	huge := 4_000_000_000_000_000_000
	_, err = loadEnvironmentWithLogger(globals, &GalaxyFlags{Count: &huge}, quiet())
	assert.ErrorIs(t, err, galaxy.ErrInvalidParameter)

	overLimit := 2_000_001
	_, err = loadEnvironmentWithLogger(globals, &GalaxyFlags{Count: &overLimit}, quiet())
	assert.ErrorIs(t, err, galaxy.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "max_count")

	mode := "ring"
	_, err = loadEnvironmentWithLogger(globals, &GalaxyFlags{Mode: &mode}, quiet())
	assert.Error(t, err)
}

func TestGenerateCommandWritesPLY(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cloud.ply")

	cli, ctx := parse(t,
		"--config", filepath.Join(dir, "none.hcl"),
		"--log-level", "error",
		"generate", "--preset", "sphere", "-n", "25", "-s", "9", "-o", out)
	require.NoError(t, ctx.Run(&cli.Globals))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "ply\n"))
	assert.Contains(t, text, "element vertex 25")
	assert.Contains(t, text, "galaxygen mode=sphere seed=9")
}

func TestGenerateFormatSelection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cmd  GenerateCmd
		want string
	}{
		{GenerateCmd{Output: "-"}, "json"},
		{GenerateCmd{Output: "galaxy.png"}, "png"},
		{GenerateCmd{Output: "galaxy.PLY"}, "ply"},
		{GenerateCmd{Output: "galaxy.txt"}, "json"},
		{GenerateCmd{Output: "galaxy.png", Format: "json"}, "json"},
	}
	for _, tc := range cases {
		got, err := tc.cmd.format()
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(got), "output %s", tc.cmd.Output)
	}

	_, err := (&GenerateCmd{Output: "-", Format: "obj"}).format()
	assert.Error(t, err)
}
