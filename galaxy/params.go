package galaxy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidParameter is returned (wrapped with the offending field) when
// Params cannot produce a well-defined cloud.
var ErrInvalidParameter = errors.New("galaxy: invalid parameter")

// Mode selects the spatial distribution algorithm
type Mode uint8

const (
	Spiral Mode = iota
	Sphere
	Disk
)

// Modes lists every supported mode in display order
var Modes = []Mode{Spiral, Sphere, Disk}

func (m Mode) String() string {
	switch m {
	case Spiral:
		return "spiral"
	case Sphere:
		return "sphere"
	case Disk:
		return "disk"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name, case-insensitively
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spiral":
		return Spiral, nil
	case "sphere":
		return Sphere, nil
	case "disk":
		return Disk, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidParameter, s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m > Disk {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidParameter, m)
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Params is the immutable input of one generation call
type Params struct {
	Mode       Mode    `json:"mode"`
	Count      int     `json:"count"`
	Radius     float64 `json:"radius"`
	Arms       int     `json:"arms"`
	Spread     float64 `json:"spread"`
	Thickness  float64 `json:"thickness"`
	Twist      float64 `json:"twist"`
	RadiusExp  float64 `json:"radius_exp"`
	ColorExp   float64 `json:"color_exp"`
	ColorStart Color   `json:"color_start"`
	ColorEnd   Color   `json:"color_end"`
	Seed       uint32  `json:"seed"`

	// Reserved. Carried through presets and config files but not consumed
	// by any sampler.
	NoiseExp float64 `json:"noise_exp"`
	Clusters int     `json:"clusters"`
	Clump    float64 `json:"clump"`
}

// MaxCount is the largest cloud Generate accepts. Callers serving untrusted
// input usually want a tighter limit of their own.
const MaxCount = 50_000_000

// DefaultParams returns the parameter set the viewers start from
func DefaultParams() Params {
	return Params{
		Mode:       Spiral,
		Count:      5000,
		Radius:     200,
		Arms:       4,
		Spread:     0.6,
		Thickness:  2,
		Twist:      6,
		RadiusExp:  0.6,
		ColorExp:   1.0,
		ColorStart: MustParseColor("#ff6a00"),
		ColorEnd:   MustParseColor("#00aaff"),
		Seed:       12345,
		NoiseExp:   1.0,
		Clusters:   8,
		Clump:      0.35,
	}
}

// Validate reports the first parameter that would make generation
// ill-defined (NaN positions, division by zero, negative sizes).
func (p Params) Validate() error {
	if p.Mode > Disk {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidParameter, p.Mode)
	}
	if p.Count < 0 {
		return invalidf("count", "must not be negative, got %d", p.Count)
	}
	if p.Count > MaxCount {
		return invalidf("count", "must be at most %d, got %d", MaxCount, p.Count)
	}
	if !positive(p.Radius) {
		return invalidf("radius", "must be positive, got %g", p.Radius)
	}
	if !positive(p.RadiusExp) {
		return invalidf("radius_exp", "must be positive, got %g", p.RadiusExp)
	}
	if !positive(p.ColorExp) {
		return invalidf("color_exp", "must be positive, got %g", p.ColorExp)
	}
	if p.Mode == Spiral && p.Arms < 1 {
		return invalidf("arms", "must be at least 1 in spiral mode, got %d", p.Arms)
	}
	if !nonNegative(p.Spread) {
		return invalidf("spread", "must not be negative, got %g", p.Spread)
	}
	if !nonNegative(p.Thickness) {
		return invalidf("thickness", "must not be negative, got %g", p.Thickness)
	}
	if math.IsNaN(p.Twist) || math.IsInf(p.Twist, 0) {
		return invalidf("twist", "must be finite, got %g", p.Twist)
	}
	return nil
}

func invalidf(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, field, fmt.Sprintf(format, args...))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
