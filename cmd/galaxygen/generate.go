package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/galaxygen/cmd/galaxygen/shared"
	"github.com/lox/galaxygen/internal/export"
)

type GenerateCmd struct {
	GalaxyFlags `embed:""`

	Output string `short:"o" default:"-" help:"Output file, '-' writes to stdout"`
	Format string `short:"f" help:"Output format (json, ply, png); inferred from the output extension when empty"`
	Width  int    `help:"PNG width (defaults to the view block)"`
	Height int    `help:"PNG height (defaults to the view block)"`
}

func (c *GenerateCmd) Run(globals *Globals) error {
	env, err := loadEnvironment(globals, &c.GalaxyFlags)
	if err != nil {
		return err
	}
	ctx := shared.SetupSignalHandler(env.logger)

	format, err := c.format()
	if err != nil {
		return err
	}

	start := time.Now()
	cloud, err := env.session(&c.GalaxyFlags).Regenerate(ctx)
	if err != nil {
		return err
	}
	env.logger.Info("Generated cloud",
		"mode", cloud.Params.Mode,
		"points", cloud.Len(),
		"seed", cloud.Params.Seed,
		"elapsed", time.Since(start).Round(time.Millisecond))

	img := export.Image{
		Camera:    env.camera(),
		Width:     env.config.View.Width,
		Height:    env.config.View.Height,
		PointSize: env.settings.View.Size,
	}
	if c.Width > 0 {
		img.Width = c.Width
	}
	if c.Height > 0 {
		img.Height = c.Height
	}

	if c.Output == "-" {
		return export.Write(os.Stdout, cloud, format, img)
	}
	if err := export.WriteFile(c.Output, cloud, format, img); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}
	env.logger.Info("Wrote cloud", "file", c.Output, "format", format)
	return checkContext(ctx)
}

func (c *GenerateCmd) format() (export.Format, error) {
	if c.Format != "" {
		return export.ParseFormat(c.Format)
	}
	if c.Output == "-" {
		return export.FormatJSON, nil
	}
	return export.FormatForPath(c.Output), nil
}

// checkContext reports an interrupt that arrived while work was finishing
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	return nil
}
