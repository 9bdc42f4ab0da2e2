package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/galaxygen/cmd/galaxygen/shared"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/config"
	"github.com/lox/galaxygen/internal/preset"
	"github.com/lox/galaxygen/internal/render"
	"github.com/lox/galaxygen/internal/session"
)

// GalaxyFlags override the configured settings. Unset flags keep the value
// from the preset or the config file.
type GalaxyFlags struct {
	Preset     string   `short:"p" help:"Start from a named preset"`
	Mode       *string  `help:"Generation mode (spiral, sphere, disk)"`
	Count      *int     `short:"n" help:"Number of points"`
	Radius     *float64 `help:"Galaxy radius"`
	Arms       *int     `help:"Spiral arm count"`
	Spread     *float64 `help:"Noise amplitude"`
	Thickness  *float64 `help:"Vertical thickness"`
	Twist      *float64 `help:"Spiral twist"`
	RadiusExp  *float64 `name:"radius-exp" help:"Radial distribution exponent"`
	ColorExp   *float64 `name:"color-exp" help:"Color gradient exponent"`
	ColorStart *string  `name:"color-start" help:"Core color (#rrggbb)"`
	ColorEnd   *string  `name:"color-end" help:"Rim color (#rrggbb)"`
	Seed       *int64   `short:"s" help:"Random seed (0 to 4294967295)"`
	Workers    int      `short:"w" help:"Generation workers (0 uses every CPU)"`
}

func (f *GalaxyFlags) fields() preset.Fields {
	return preset.Fields{
		Mode:       f.Mode,
		Count:      f.Count,
		Radius:     f.Radius,
		Arms:       f.Arms,
		Spread:     f.Spread,
		Thickness:  f.Thickness,
		Twist:      f.Twist,
		RadiusExp:  f.RadiusExp,
		ColorExp:   f.ColorExp,
		ColorStart: f.ColorStart,
		ColorEnd:   f.ColorEnd,
		Seed:       f.Seed,
	}
}

// environment is everything a command needs after loading configuration
type environment struct {
	logger   *log.Logger
	config   *config.Config
	registry *preset.Registry
	settings preset.Settings
}

func loadEnvironment(globals *Globals, flags *GalaxyFlags) (*environment, error) {
	logger := shared.SetupLogger(globals.Debug, globals.LogLevel)
	return loadEnvironmentWithLogger(globals, flags, logger)
}

func loadEnvironmentWithLogger(globals *Globals, flags *GalaxyFlags, logger *log.Logger) (*environment, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", globals.Config, err)
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	if flags.Preset != "" {
		p, err := registry.Get(flags.Preset)
		if err != nil {
			return nil, err
		}
		if settings, err = p.Apply(settings); err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
	}
	if settings, err = flags.fields().Apply(settings); err != nil {
		return nil, err
	}
	if err := settings.Galaxy.Validate(); err != nil {
		return nil, err
	}
	if settings.Galaxy.Count > cfg.View.MaxCount {
		return nil, fmt.Errorf("%w: count %d exceeds max_count %d", galaxy.ErrInvalidParameter, settings.Galaxy.Count, cfg.View.MaxCount)
	}

	logger.Debug("Loaded configuration", "file", globals.Config, "presets", len(registry.Names()))
	return &environment{logger: logger, config: cfg, registry: registry, settings: settings}, nil
}

func (e *environment) session(flags *GalaxyFlags) *session.Session {
	workers := flags.Workers
	if workers == 0 {
		workers = e.config.View.Workers
	}
	return session.New(e.logger, e.registry, e.settings, session.Options{
		Workers:  workers,
		MaxCount: e.config.View.MaxCount,
	})
}

func (e *environment) camera() render.Camera {
	cam := render.DefaultCamera()
	cam.FOV = e.config.View.FOV
	cam.Distance = e.config.View.Distance
	cam.Elevation = e.config.View.Elevation
	return cam
}

// quietLogger is used by commands whose stdout is the product
func quietLogger(globals *Globals) *log.Logger {
	return shared.SetupLoggerTo(os.Stderr, globals.Debug, "warn")
}
