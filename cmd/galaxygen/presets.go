package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type PresetsCmd struct {
	Name string `arg:"" optional:"" help:"Show a single preset"`
}

var presetNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

func (c *PresetsCmd) Run(globals *Globals) error {
	env, err := loadEnvironmentWithLogger(globals, &GalaxyFlags{}, quietLogger(globals))
	if err != nil {
		return err
	}

	names := env.registry.Names()
	if c.Name != "" {
		if _, err := env.registry.Get(c.Name); err != nil {
			return err
		}
		names = []string{c.Name}
	}

	for _, name := range names {
		p, err := env.registry.Get(name)
		if err != nil {
			return err
		}
		pairs := make([]string, 0, len(p.Overrides()))
		for _, o := range p.Overrides() {
			pairs = append(pairs, o.Key+"="+o.Value)
		}
		fmt.Fprintf(os.Stdout, "%s  %s\n", presetNameStyle.Render(name), strings.Join(pairs, " "))
	}
	return nil
}
