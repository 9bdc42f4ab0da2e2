package galaxy

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MinColorExponent is the floor applied to Interpolate's exponent. It keeps
// zero and negative exponents from producing NaN or Inf.
const MinColorExponent = 0.1

// Color is an RGB triple. Channels are nominally in [0, 1] but are never
// clamped: additive-blend sinks accept values above 1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// ParseColor parses CSS hex notation ("#ff6a00", "#f60", "ff6a00")
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidParameter, s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

// MustParseColor is ParseColor for package-level literals
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb", clamping channels into range
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalText encodes the color as 8-bit hex for logs and other text sinks
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// rgb is Color without its text encoding
type rgb Color

// MarshalJSON writes the float channels, so a decoded color equals the
// original exactly. Hex would round each channel to 8 bits.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(rgb(c))
}

// UnmarshalJSON accepts the {"r","g","b"} object or a hex string
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.UnmarshalText([]byte(s))
	}
	var v rgb
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: color %s: %v", ErrInvalidParameter, data, err)
	}
	*c = Color(v)
	return nil
}

// UnmarshalText decodes hex notation
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Interpolate maps t onto the gradient from start to end. t is shaped by
// t^max(exponent, MinColorExponent) and each channel is blended linearly.
// t is not clamped and neither is the result.
func Interpolate(t float64, start, end Color, exponent float64) Color {
	shaped := math.Pow(t, math.Max(exponent, MinColorExponent))
	return Color{
		R: lerp(start.R, end.R, shaped),
		G: lerp(start.G, end.G, shaped),
		B: lerp(start.B, end.B, shaped),
	}
}

// lerp is exact at both endpoints: t=0 yields a and t=1 yields b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
