package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/galaxygen/cmd/galaxygen/shared"
	"github.com/lox/galaxygen/internal/tui"
	"github.com/muesli/termenv"
)

type ViewCmd struct {
	GalaxyFlags `embed:""`

	LogFile string `help:"Write logs to this file while the viewer owns the terminal"`
}

func (c *ViewCmd) Run(globals *Globals) error {
	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := shared.SetupLoggerTo(out, globals.Debug, globals.LogLevel)

	env, err := loadEnvironmentWithLogger(globals, &c.GalaxyFlags, logger)
	if err != nil {
		return err
	}
	ctx := shared.SetupSignalHandler(logger)

	m := tui.NewModel(env.session(&c.GalaxyFlags), logger.WithPrefix("tui"), tui.Options{
		Camera:  env.camera(),
		Profile: termenv.EnvColorProfile(),
	})
	return tui.Run(ctx, m)
}
