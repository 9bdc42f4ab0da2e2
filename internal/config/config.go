// Package config loads the galaxygen HCL configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/preset"
)

// Config represents the complete configuration file
type Config struct {
	Galaxy  *preset.Fields `hcl:"galaxy,block"`
	View    *ViewConfig    `hcl:"view,block"`
	Server  *ServerConfig  `hcl:"server,block"`
	Presets []preset.Block `hcl:"preset,block"`
}

// ViewConfig controls the camera and rendered image size
type ViewConfig struct {
	Width     int     `hcl:"width,optional"`
	Height    int     `hcl:"height,optional"`
	FOV       float64 `hcl:"fov,optional"`
	Distance  float64 `hcl:"distance,optional"`
	Elevation float64 `hcl:"elevation,optional"`
	Workers   int     `hcl:"workers,optional"`
	MaxCount  int     `hcl:"max_count,optional"`
}

// ServerConfig contains WebSocket server settings
type ServerConfig struct {
	Address         string   `hcl:"address,optional"`
	Port            int      `hcl:"port,optional"`
	AllowedOrigins  []string `hcl:"allowed_origins,optional"`
	RegenerateRate  float64  `hcl:"regenerate_rate,optional"`
	RegenerateBurst int      `hcl:"regenerate_burst,optional"`
	RotationFPS     int      `hcl:"rotation_fps,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.View == nil {
		c.View = &ViewConfig{}
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}

	if c.View.Width == 0 {
		c.View.Width = 1280
	}
	if c.View.Height == 0 {
		c.View.Height = 720
	}
	if c.View.FOV == 0 {
		c.View.FOV = 75
	}
	if c.View.Distance == 0 {
		c.View.Distance = 300
	}
	if c.View.Elevation == 0 {
		c.View.Elevation = 50
	}
	if c.View.MaxCount == 0 {
		c.View.MaxCount = 2_000_000
	}

	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.RegenerateRate == 0 {
		c.Server.RegenerateRate = 4
	}
	if c.Server.RegenerateBurst == 0 {
		c.Server.RegenerateBurst = 8
	}
	if c.Server.RotationFPS == 0 {
		c.Server.RotationFPS = 30
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.RegenerateRate < 0 || c.Server.RegenerateBurst < 1 {
		return fmt.Errorf("invalid regenerate limit: rate %g burst %d", c.Server.RegenerateRate, c.Server.RegenerateBurst)
	}
	if c.Server.RotationFPS < 1 || c.Server.RotationFPS > 240 {
		return fmt.Errorf("rotation fps must be between 1 and 240, got %d", c.Server.RotationFPS)
	}
	if c.View.Width < 1 || c.View.Height < 1 {
		return fmt.Errorf("invalid view size %dx%d", c.View.Width, c.View.Height)
	}
	if c.View.FOV <= 0 || c.View.FOV >= 180 {
		return fmt.Errorf("fov must be between 0 and 180 degrees, got %g", c.View.FOV)
	}
	if c.View.Distance <= 0 {
		return fmt.Errorf("camera distance must be positive, got %g", c.View.Distance)
	}
	if c.View.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.View.Workers)
	}
	if c.View.MaxCount < 1 || c.View.MaxCount > galaxy.MaxCount {
		return fmt.Errorf("max_count must be between 1 and %d, got %d", galaxy.MaxCount, c.View.MaxCount)
	}

	s, err := c.Settings()
	if err != nil {
		return err
	}
	if err := s.Galaxy.Validate(); err != nil {
		return fmt.Errorf("galaxy block: %w", err)
	}
	if s.Galaxy.Count > c.View.MaxCount {
		return fmt.Errorf("galaxy block: count %d exceeds max_count %d", s.Galaxy.Count, c.View.MaxCount)
	}

	seen := make(map[string]bool)
	for _, b := range c.Presets {
		if seen[b.Name] {
			return fmt.Errorf("preset %q defined twice", b.Name)
		}
		seen[b.Name] = true
		if _, err := b.Decode(); err != nil {
			return err
		}
	}
	return nil
}

// Settings returns the starting settings: defaults overlaid with the galaxy block
func (c *Config) Settings() (preset.Settings, error) {
	s := preset.DefaultSettings()
	if c.Galaxy == nil {
		return s, nil
	}
	s, err := c.Galaxy.Apply(s)
	if err != nil {
		return s, fmt.Errorf("galaxy block: %w", err)
	}
	return s, nil
}

// Registry returns the built-in presets plus the ones this file defines
func (c *Config) Registry() (*preset.Registry, error) {
	r := preset.NewRegistry()
	for _, b := range c.Presets {
		p, err := b.Decode()
		if err != nil {
			return nil, err
		}
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RotationInterval is the period between rotation broadcasts
func (c *Config) RotationInterval() time.Duration {
	return time.Second / time.Duration(c.Server.RotationFPS)
}
