// Package tui is a terminal viewer for galaxy clouds built on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/render"
	"github.com/lox/galaxygen/internal/session"
	"github.com/muesli/termenv"
)

const (
	sidebarWidth = 30
	logHeight    = 6
	frameRate    = 15
)

// Options tunes the viewer
type Options struct {
	Camera  render.Camera
	Rotator *render.Rotator
	Profile termenv.Profile
}

// Model is the Bubble Tea model of the viewer
type Model struct {
	session *session.Session
	rotator *render.Rotator
	camera  render.Camera
	profile termenv.Profile
	logger  *log.Logger

	// UI components
	logViewport  viewport.Model
	commandInput textinput.Model

	// State
	entries     []string
	canvas      string
	summary     galaxy.Summary
	busy        bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width  int
	height int
}

// tickMsg drives auto-rotation redraws
type tickMsg time.Time

// regeneratedMsg reports the outcome of a background regeneration
type regeneratedMsg struct {
	action string
	cloud  *galaxy.Cloud
	err    error
}

// NewModel creates a viewer over sess
func NewModel(sess *session.Session, logger *log.Logger, opts Options) *Model {
	vp := viewport.New(10, logHeight)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "preset spiral, set count 20000, seed 42, random, rotate on, render, quit"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	if opts.Rotator == nil {
		opts.Rotator = render.NewRotator(quartz.NewReal())
	}
	if opts.Camera == (render.Camera{}) {
		opts.Camera = render.DefaultCamera()
	}

	m := &Model{
		session:      sess,
		rotator:      opts.Rotator,
		camera:       opts.Camera,
		profile:      opts.Profile,
		logger:       logger.WithPrefix("tui"),
		logViewport:  vp,
		commandInput: ti,
		focusedPane:  1,
	}
	if cloud := sess.Cloud(); cloud != nil {
		m.summary = galaxy.Summarize(cloud)
	}
	return m
}

// Run starts the viewer and blocks until it exits or ctx is cancelled
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the viewer
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tick()}
	if m.session.Cloud() == nil {
		m.busy = true
		cmds = append(cmds, m.regenerate("render", m.session.Regenerate))
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// regenerate runs fn off the UI goroutine and reports back with a regeneratedMsg
func (m *Model) regenerate(action string, fn func(ctx context.Context) (*galaxy.Cloud, error)) tea.Cmd {
	return func() tea.Msg {
		cloud, err := fn(context.Background())
		return regeneratedMsg{action: action, cloud: cloud, err: err}
	}
}

// Update handles messages in the viewer
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.redraw()

	case tickMsg:
		view := m.session.Settings().View
		m.rotator.Configure(view.AutoRotate, view.RotateSpeed)
		if m.rotator.Enabled() {
			m.redraw()
		}
		cmds = append(cmds, tick())

	case regeneratedMsg:
		m.busy = false
		if msg.err != nil {
			m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("%s failed: %v", msg.action, msg.err)))
		} else {
			m.summary = galaxy.Summarize(msg.cloud)
			p := msg.cloud.Params
			m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("%s: %d points, %s, seed %d", msg.action, msg.cloud.Len(), p.Mode, p.Seed)))
			m.redraw()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.commandInput.Focus()
			} else {
				m.focusedPane = 0
				m.commandInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.commandInput.Value())
				m.commandInput.SetValue("")
				if cmd := m.Execute(input); cmd != nil {
					cmds = append(cmds, cmd)
				}
				if m.quitting {
					return m, tea.Quit
				}
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.commandInput, cmd = m.commandInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// canvasSize returns the cell dimensions available to the galaxy canvas
func (m *Model) canvasSize() (cols, rows int) {
	cols = m.width - sidebarWidth - 4
	rows = m.height - logHeight - 8
	return max(cols, 1), max(rows, 1)
}

// redraw re-rasterizes the canvas at the current rotation
func (m *Model) redraw() {
	if m.width == 0 || m.height == 0 {
		return
	}
	cam := m.camera
	cam.Yaw = m.rotator.Angle()
	cols, rows := m.canvasSize()
	m.canvas = renderCanvas(m.session.Cloud(), cam, cols, rows, m.session.Settings().View.Size, m.profile)
}

// View renders the viewer
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	cols, rows := m.canvasSize()
	canvasPane := paneStyle(false, cols, rows).Render(m.canvas)
	sidebarPane := paneStyle(false, sidebarWidth, rows).Render(m.renderSidebar())
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, canvasPane, sidebarPane)

	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = logHeight
	logPane := paneStyle(m.focusedPane == 0, m.width-2, logHeight).Render(m.logViewport.View())

	inputPane := paneStyle(m.focusedPane == 1, m.width-2, 2).Render(m.renderInput())

	return lipgloss.JoinVertical(lipgloss.Left, topRow, logPane, inputPane)
}

// renderSidebar lists the working parameters and cloud statistics
func (m *Model) renderSidebar() string {
	s := m.session.Settings()
	g := s.Galaxy

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("galaxy"))
	b.WriteString("\n\n")

	row := func(label string, value any) {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(ValueStyle.Render(fmt.Sprint(value)))
		b.WriteString("\n")
	}
	row("mode", g.Mode)
	row("count", g.Count)
	row("radius", g.Radius)
	if g.Mode == galaxy.Spiral {
		row("arms", g.Arms)
		row("twist", g.Twist)
	}
	row("spread", g.Spread)
	row("thickness", g.Thickness)
	row("radius_exp", g.RadiusExp)
	row("color_exp", g.ColorExp)
	row("seed", g.Seed)
	b.WriteString(LabelStyle.Render(fmt.Sprintf("%-12s", "colors")))
	b.WriteString(swatch(g.ColorStart.Hex()) + " → " + swatch(g.ColorEnd.Hex()))
	b.WriteString("\n")
	row("size", s.View.Size)
	rotation := "off"
	if s.View.AutoRotate {
		rotation = fmt.Sprintf("%g°/s", s.View.RotateSpeed)
	}
	row("rotate", rotation)

	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render("cloud"))
	b.WriteString("\n\n")
	row("points", m.summary.Count)
	row("mean dist", fmt.Sprintf("%.3f", m.summary.MeanDistance))
	row("p90 dist", fmt.Sprintf("%.3f", m.summary.P90Distance))
	row("beyond r", fmt.Sprintf("%.1f%%", 100*m.summary.BeyondRadius))
	return b.String()
}

func (m *Model) renderInput() string {
	var b strings.Builder
	b.WriteString(m.commandInput.View())
	b.WriteString("\n")

	help := "Tab to scroll log • Enter to run • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Tab to input"
	}
	if m.busy {
		help = WarningStyle.Render("generating… ") + help
	}
	b.WriteString(HelpStyle.Render(help))
	return b.String()
}

// AddLogEntry appends to the log pane and scrolls to the bottom
func (m *Model) AddLogEntry(entry string) {
	m.entries = append(m.entries, entry)
	m.logViewport.SetContent(strings.Join(m.entries, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}
