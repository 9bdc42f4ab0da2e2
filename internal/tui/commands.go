package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/session"
)

const helpText = "commands: preset <name> | set <key> <value> | seed <n> | mode <spiral|sphere|disk> | random | rotate on|off|reset | render | presets | keys | quit"

// Execute runs one command line. Commands that regenerate return a tea.Cmd
// doing the work in the background.
func (m *Model) Execute(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	m.logger.Debug("Command", "name", name, "args", args)
	m.AddLogEntry(LabelStyle.Render("> " + input))

	switch name {
	case "quit", "exit", "q":
		m.quitting = true
		return nil

	case "help", "?":
		m.AddLogEntry(helpText)
		return nil

	case "presets":
		m.AddLogEntry("presets: " + strings.Join(m.session.Registry().Names(), ", "))
		return nil

	case "keys":
		m.AddLogEntry("keys: " + strings.Join(session.Keys, ", "))
		return nil

	case "preset":
		if len(args) != 1 {
			return m.usage("preset <name>")
		}
		preset := args[0]
		return m.startRegenerate("preset "+preset, func(ctx context.Context) (*galaxy.Cloud, error) {
			return m.session.ApplyPreset(ctx, preset)
		})

	case "set":
		if len(args) < 2 {
			return m.usage("set <key> <value>")
		}
		key, value := args[0], strings.Join(args[1:], " ")
		if err := m.session.Set(key, value); err != nil {
			m.AddLogEntry(ErrorStyle.Render(err.Error()))
			return nil
		}
		m.AddLogEntry(fmt.Sprintf("%s = %s (render to apply)", key, value))
		return nil

	case "seed", "mode":
		if len(args) != 1 {
			return m.usage(name + " <value>")
		}
		if err := m.session.Set(name, args[0]); err != nil {
			m.AddLogEntry(ErrorStyle.Render(err.Error()))
			return nil
		}
		return m.startRegenerate(name+" "+args[0], m.session.Regenerate)

	case "random", "randomize":
		return m.startRegenerate("random", m.session.Randomize)

	case "rotate":
		if len(args) != 1 {
			return m.usage("rotate on|off|reset")
		}
		if strings.EqualFold(args[0], "reset") {
			m.rotator.Reset()
			m.redraw()
			m.AddLogEntry("rotation reset")
			return nil
		}
		if err := m.session.Set("auto_rotate", args[0]); err != nil {
			m.AddLogEntry(ErrorStyle.Render(err.Error()))
			return nil
		}
		m.AddLogEntry("auto-rotate " + strings.ToLower(args[0]))
		return nil

	case "render", "regenerate":
		return m.startRegenerate("render", m.session.Regenerate)

	default:
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("unknown command %q", name)))
		m.AddLogEntry(helpText)
		return nil
	}
}

func (m *Model) usage(form string) tea.Cmd {
	m.AddLogEntry(WarningStyle.Render("usage: " + form))
	return nil
}

func (m *Model) startRegenerate(action string, fn func(ctx context.Context) (*galaxy.Cloud, error)) tea.Cmd {
	m.busy = true
	return m.regenerate(action, fn)
}
