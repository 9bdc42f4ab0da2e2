// Package session owns the working settings a viewer edits and the cloud
// currently on display.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/preset"
	"github.com/lox/galaxygen/internal/randutil"
)

// ErrUnknownKey is returned by Set for a parameter name it does not know
var ErrUnknownKey = errors.New("unknown parameter")

// Keys lists the parameter names Set accepts, in control-panel order
var Keys = []string{
	"mode", "count", "size", "radius", "arms", "spread", "thickness",
	"twist", "radius_exp", "noise_exp", "color_exp", "color_start",
	"color_end", "auto_rotate", "rotate_speed", "seed", "clusters", "clump",
}

// Listener is called after every successful regeneration
type Listener func(cloud *galaxy.Cloud, settings preset.Settings)

// Options tunes a Session
type Options struct {
	// Workers is passed to galaxy.GenerateParallel; 0 uses GOMAXPROCS.
	Workers int
	// RandSeed seeds the randomizer. Nil picks one from the clock.
	RandSeed *int64
	// MaxCount caps the point count Regenerate will build. 0 means
	// galaxy.MaxCount.
	MaxCount int
}

// Session is safe for concurrent use
type Session struct {
	logger   *log.Logger
	registry *preset.Registry
	workers  int
	maxCount int

	mu       sync.Mutex
	settings preset.Settings
	rng      *rand.Rand

	genMu sync.Mutex
	cloud atomic.Pointer[galaxy.Cloud]

	listenersMu sync.RWMutex
	listeners   []Listener
}

// New creates a session starting from settings. No cloud exists until the
// first Regenerate.
func New(logger *log.Logger, registry *preset.Registry, settings preset.Settings, opts Options) *Session {
	seed, rng := randutil.Resolve(opts.RandSeed)
	logger = logger.WithPrefix("session")
	logger.Debug("Randomizer seeded", "seed", seed)

	maxCount := opts.MaxCount
	if maxCount <= 0 || maxCount > galaxy.MaxCount {
		maxCount = galaxy.MaxCount
	}

	return &Session{
		logger:   logger,
		registry: registry,
		workers:  opts.Workers,
		maxCount: maxCount,
		settings: settings,
		rng:      rng,
	}
}

// Settings returns a copy of the working settings
func (s *Session) Settings() preset.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Cloud returns the cloud on display, or nil before the first regeneration
func (s *Session) Cloud() *galaxy.Cloud {
	return s.cloud.Load()
}

// Registry returns the presets this session can apply
func (s *Session) Registry() *preset.Registry {
	return s.registry
}

// OnRegenerate registers l to be called after every successful regeneration
func (s *Session) OnRegenerate(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Set updates one parameter by name without regenerating. Values are parsed
// here; range checks happen when the cloud is regenerated.
func (s *Session) Set(key, value string) error {
	fields, err := parseField(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := fields.Apply(s.settings)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	s.settings = updated
	return nil
}

// ApplyPreset overlays the named preset and regenerates
func (s *Session) ApplyPreset(ctx context.Context, name string) (*galaxy.Cloud, error) {
	p, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	updated, err := p.Apply(s.settings)
	if err == nil {
		s.settings = updated
	}
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("apply preset %q: %w", name, err)
	}

	s.logger.Info("Applied preset", "preset", name)
	return s.Regenerate(ctx)
}

// Randomize redraws every tunable within its reasonable range and regenerates
func (s *Session) Randomize(ctx context.Context) (*galaxy.Cloud, error) {
	s.mu.Lock()
	s.settings = preset.Randomize(s.rng, s.settings)
	seed := s.settings.Galaxy.Seed
	s.mu.Unlock()

	s.logger.Info("Randomized settings", "seed", seed)
	return s.Regenerate(ctx)
}

// Regenerate builds a cloud from a snapshot of the current settings and
// swaps it in. On failure the previous cloud stays on display.
func (s *Session) Regenerate(ctx context.Context) (*galaxy.Cloud, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	settings := s.Settings()
	start := time.Now()
	cloud, err := s.generate(ctx, settings.Galaxy)
	if err != nil {
		s.logger.Warn("Regeneration failed, keeping previous cloud", "error", err)
		return nil, err
	}
	s.cloud.Store(cloud)

	s.logger.Debug("Regenerated cloud",
		"mode", settings.Galaxy.Mode,
		"count", cloud.Len(),
		"seed", settings.Galaxy.Seed,
		"elapsed", time.Since(start))

	s.listenersMu.RLock()
	listeners := s.listeners
	s.listenersMu.RUnlock()
	for _, l := range listeners {
		l(cloud, settings)
	}
	return cloud, nil
}

func (s *Session) generate(ctx context.Context, p galaxy.Params) (*galaxy.Cloud, error) {
	if p.Count > s.maxCount {
		return nil, fmt.Errorf("%w: count must be at most %d, got %d", galaxy.ErrInvalidParameter, s.maxCount, p.Count)
	}
	return galaxy.GenerateParallel(ctx, p, s.workers)
}

// parseField turns one control-panel update into a partial override
func parseField(key, value string) (preset.Fields, error) {
	var f preset.Fields
	value = strings.TrimSpace(value)

	invalid := func(err error) (preset.Fields, error) {
		return f, fmt.Errorf("%w: %s: %v", galaxy.ErrInvalidParameter, key, err)
	}
	float := func(dst **float64) (preset.Fields, error) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid(err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(fmt.Errorf("%q is not finite", value))
		}
		*dst = &v
		return f, nil
	}
	integer := func(dst **int) (preset.Fields, error) {
		v, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		*dst = &v
		return f, nil
	}

	switch key {
	case "mode":
		f.Mode = &value
	case "color_start":
		f.ColorStart = &value
	case "color_end":
		f.ColorEnd = &value
	case "count":
		return integer(&f.Count)
	case "arms":
		return integer(&f.Arms)
	case "clusters":
		return integer(&f.Clusters)
	case "size":
		return float(&f.Size)
	case "radius":
		return float(&f.Radius)
	case "spread":
		return float(&f.Spread)
	case "thickness":
		return float(&f.Thickness)
	case "twist":
		return float(&f.Twist)
	case "radius_exp":
		return float(&f.RadiusExp)
	case "noise_exp":
		return float(&f.NoiseExp)
	case "color_exp":
		return float(&f.ColorExp)
	case "rotate_speed":
		return float(&f.RotateSpeed)
	case "clump":
		return float(&f.Clump)
	case "seed":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return invalid(err)
		}
		seed := int64(v)
		f.Seed = &seed
	case "auto_rotate":
		on, err := parseOnOff(value)
		if err != nil {
			return invalid(err)
		}
		f.AutoRotate = &on
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f, nil
}

func parseOnOff(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}
