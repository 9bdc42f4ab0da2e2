package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/preset"
	"github.com/lox/galaxygen/internal/render"
	"github.com/lox/galaxygen/internal/session"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (*Model, *session.Session, *quartz.Mock) {
	t.Helper()

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
	seed := int64(3)
	settings := preset.DefaultSettings()
	settings.Galaxy.Count = 400
	sess := session.New(logger, preset.NewRegistry(), settings, session.Options{Workers: 1, RandSeed: &seed})

	clock := quartz.NewMock(t)
	m := NewModel(sess, logger, Options{
		Camera:  render.DefaultCamera(),
		Rotator: render.NewRotator(clock),
		Profile: termenv.Ascii,
	})
	return m, sess, clock
}

// run executes a command line and feeds any resulting message back into the model
func run(t *testing.T, m *Model, input string) {
	t.Helper()
	if cmd := m.Execute(input); cmd != nil {
		m.Update(cmd())
	}
}

func logText(m *Model) string {
	return strings.Join(m.entries, "\n")
}

func TestInitGeneratesFirstCloud(t *testing.T) {
	t.Parallel()

	m, sess, _ := newTestModel(t)
	m.Init()
	assert.True(t, m.busy)

	cmd := m.regenerate("render", sess.Regenerate)
	m.Update(cmd())
	assert.False(t, m.busy)
	require.NotNil(t, sess.Cloud())
	assert.Equal(t, 400, m.summary.Count)
	assert.Contains(t, logText(m), "render: 400 points, spiral, seed 12345")
}

func TestCommands(t *testing.T) {
	t.Parallel()

	t.Run("preset", func(t *testing.T) {
		m, sess, _ := newTestModel(t)
		run(t, m, "preset nebula")
		assert.Equal(t, 12000, sess.Cloud().Len())
		assert.Equal(t, galaxy.Sphere, sess.Settings().Galaxy.Mode)
	})

	t.Run("set does not regenerate", func(t *testing.T) {
		m, sess, _ := newTestModel(t)
		run(t, m, "set count 50")
		assert.Equal(t, 50, sess.Settings().Galaxy.Count)
		assert.Nil(t, sess.Cloud())

		run(t, m, "render")
		assert.Equal(t, 50, sess.Cloud().Len())
	})

	t.Run("seed and mode regenerate", func(t *testing.T) {
		m, sess, _ := newTestModel(t)
		run(t, m, "seed 99")
		assert.Equal(t, uint32(99), sess.Cloud().Params.Seed)
		run(t, m, "mode disk")
		assert.Equal(t, galaxy.Disk, sess.Cloud().Params.Mode)
	})

	t.Run("random", func(t *testing.T) {
		m, sess, _ := newTestModel(t)
		run(t, m, "random")
		require.NotNil(t, sess.Cloud())
		assert.Equal(t, sess.Settings().Galaxy, sess.Cloud().Params)
	})

	t.Run("rotate", func(t *testing.T) {
		m, sess, _ := newTestModel(t)
		run(t, m, "rotate on")
		assert.True(t, sess.Settings().View.AutoRotate)
		run(t, m, "rotate off")
		assert.False(t, sess.Settings().View.AutoRotate)
		run(t, m, "rotate reset")
		assert.Zero(t, m.rotator.Angle())
		assert.Contains(t, logText(m), "rotation reset")
	})

	t.Run("errors are logged", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		run(t, m, "preset andromeda")
		run(t, m, "set galaxies 3")
		run(t, m, "warp 9")
		run(t, m, "set count")

		text := logText(m)
		assert.Contains(t, text, "preset andromeda failed")
		assert.Contains(t, text, "unknown parameter")
		assert.Contains(t, text, `unknown command "warp"`)
		assert.Contains(t, text, "usage: set <key> <value>")
		assert.False(t, m.busy)
	})

	t.Run("quit", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		run(t, m, "quit")
		assert.True(t, m.quitting)
		assert.Empty(t, m.View())
	})
}

func TestViewLayout(t *testing.T) {
	t.Parallel()

	m, sess, _ := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	_, err := sess.Regenerate(context.Background())
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "galaxy")
	assert.Contains(t, view, "spiral")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), 40)

	cols, rows := m.canvasSize()
	lines := strings.Split(m.canvas, "\n")
	require.Len(t, lines, rows)
	for _, line := range lines {
		assert.Equal(t, cols, len(line), "ascii canvas rows are one byte per cell")
	}
	assert.True(t, strings.ContainsAny(m.canvas, ".+*@"), "canvas should show the cloud")
}

func TestRotationRedrawsCanvas(t *testing.T) {
	t.Parallel()

	m, sess, clock := newTestModel(t)
	_, err := sess.Regenerate(context.Background())
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 36})
	still := m.canvas

	m.Update(tickMsg(time.Time{}))
	assert.Equal(t, still, m.canvas, "no rotation while auto-rotate is off")

	require.NoError(t, sess.Set("auto_rotate", "on"))
	require.NoError(t, sess.Set("rotate_speed", "90"))
	m.Update(tickMsg(time.Time{}))
	clock.Advance(time.Second).MustWait(context.Background())
	m.Update(tickMsg(time.Time{}))
	assert.NotEqual(t, still, m.canvas)
}

func TestRenderCanvasTrueColor(t *testing.T) {
	t.Parallel()

	cloud := &galaxy.Cloud{Points: []galaxy.Point{{Color: galaxy.Color{R: 1}}}}
	out := renderCanvas(cloud, render.DefaultCamera(), 9, 5, 0.01, termenv.TrueColor)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, out, upperHalf)
	assert.Contains(t, out, "\x1b[")
	assert.Empty(t, renderCanvas(cloud, render.DefaultCamera(), 0, 5, 1, termenv.TrueColor))
}
