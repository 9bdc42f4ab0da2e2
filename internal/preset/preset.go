package preset

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/lox/galaxygen/galaxy"
)

// ErrUnknownPreset is returned when a preset name is not registered
var ErrUnknownPreset = errors.New("unknown preset")

// Fields is a partial settings override. A nil field leaves the current
// value untouched.
type Fields struct {
	Mode        *string  `hcl:"mode,optional" json:"mode,omitempty"`
	Count       *int     `hcl:"count,optional" json:"count,omitempty"`
	Size        *float64 `hcl:"size,optional" json:"size,omitempty"`
	Radius      *float64 `hcl:"radius,optional" json:"radius,omitempty"`
	Arms        *int     `hcl:"arms,optional" json:"arms,omitempty"`
	Spread      *float64 `hcl:"spread,optional" json:"spread,omitempty"`
	Thickness   *float64 `hcl:"thickness,optional" json:"thickness,omitempty"`
	Twist       *float64 `hcl:"twist,optional" json:"twist,omitempty"`
	RadiusExp   *float64 `hcl:"radius_exp,optional" json:"radius_exp,omitempty"`
	NoiseExp    *float64 `hcl:"noise_exp,optional" json:"noise_exp,omitempty"`
	ColorExp    *float64 `hcl:"color_exp,optional" json:"color_exp,omitempty"`
	ColorStart  *string  `hcl:"color_start,optional" json:"color_start,omitempty"`
	ColorEnd    *string  `hcl:"color_end,optional" json:"color_end,omitempty"`
	AutoRotate  *bool    `hcl:"auto_rotate,optional" json:"auto_rotate,omitempty"`
	RotateSpeed *float64 `hcl:"rotate_speed,optional" json:"rotate_speed,omitempty"`
	Seed        *int64   `hcl:"seed,optional" json:"seed,omitempty"`
	Clusters    *int     `hcl:"clusters,optional" json:"clusters,omitempty"`
	Clump       *float64 `hcl:"clump,optional" json:"clump,omitempty"`
}

// Preset is a named Fields override
type Preset struct {
	Name string `json:"name"`
	Fields
}

// Block is the HCL shape of a preset: preset "<name>" { ... }
type Block struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Decode decodes the block body into a Preset and checks it
func (b Block) Decode() (Preset, error) {
	p := Preset{Name: b.Name}
	if diags := gohcl.DecodeBody(b.Body, nil, &p.Fields); diags.HasErrors() {
		return Preset{}, fmt.Errorf("preset %q: %s", b.Name, diags.Error())
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// Validate checks that the override can be applied. Range checks on the
// resulting parameters happen at generation time.
func (p Preset) Validate() error {
	if p.Name == "" {
		return errors.New("preset name must not be empty")
	}
	if _, err := p.Apply(DefaultSettings()); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return nil
}

// Apply overwrites the fields f sets and returns the result. s is not modified.
func (f Fields) Apply(s Settings) (Settings, error) {
	g := &s.Galaxy
	if f.Mode != nil {
		m, err := galaxy.ParseMode(*f.Mode)
		if err != nil {
			return s, err
		}
		g.Mode = m
	}
	if f.ColorStart != nil {
		c, err := galaxy.ParseColor(*f.ColorStart)
		if err != nil {
			return s, err
		}
		g.ColorStart = c
	}
	if f.ColorEnd != nil {
		c, err := galaxy.ParseColor(*f.ColorEnd)
		if err != nil {
			return s, err
		}
		g.ColorEnd = c
	}
	if f.Seed != nil {
		if *f.Seed < 0 || *f.Seed > math.MaxUint32 {
			return s, fmt.Errorf("%w: seed %d out of range", galaxy.ErrInvalidParameter, *f.Seed)
		}
		g.Seed = uint32(*f.Seed)
	}

	setInt(&g.Count, f.Count)
	setInt(&g.Arms, f.Arms)
	setInt(&g.Clusters, f.Clusters)
	setFloat(&g.Radius, f.Radius)
	setFloat(&g.Spread, f.Spread)
	setFloat(&g.Thickness, f.Thickness)
	setFloat(&g.Twist, f.Twist)
	setFloat(&g.RadiusExp, f.RadiusExp)
	setFloat(&g.NoiseExp, f.NoiseExp)
	setFloat(&g.ColorExp, f.ColorExp)
	setFloat(&g.Clump, f.Clump)

	setFloat(&s.View.Size, f.Size)
	setFloat(&s.View.RotateSpeed, f.RotateSpeed)
	if f.AutoRotate != nil {
		s.View.AutoRotate = *f.AutoRotate
	}
	return s, nil
}

// Override is one key/value pair a preset sets
type Override struct {
	Key   string
	Value string
}

// Overrides lists the fields f sets, in control-panel order
func (f Fields) Overrides() []Override {
	var out []Override
	add := func(key, value string) {
		out = append(out, Override{Key: key, Value: value})
	}
	str := func(key string, v *string) {
		if v != nil {
			add(key, *v)
		}
	}
	num := func(key string, v *float64) {
		if v != nil {
			add(key, strconv.FormatFloat(*v, 'g', -1, 64))
		}
	}
	integer := func(key string, v *int) {
		if v != nil {
			add(key, strconv.Itoa(*v))
		}
	}

	str("mode", f.Mode)
	integer("count", f.Count)
	num("size", f.Size)
	num("radius", f.Radius)
	integer("arms", f.Arms)
	num("spread", f.Spread)
	num("thickness", f.Thickness)
	num("twist", f.Twist)
	num("radius_exp", f.RadiusExp)
	num("noise_exp", f.NoiseExp)
	num("color_exp", f.ColorExp)
	str("color_start", f.ColorStart)
	str("color_end", f.ColorEnd)
	if f.AutoRotate != nil {
		add("auto_rotate", onOff(*f.AutoRotate))
	}
	num("rotate_speed", f.RotateSpeed)
	if f.Seed != nil {
		add("seed", strconv.FormatInt(*f.Seed, 10))
	}
	integer("clusters", f.Clusters)
	num("clump", f.Clump)
	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
