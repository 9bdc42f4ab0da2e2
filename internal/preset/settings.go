// Package preset holds the working settings a viewer edits and the named
// partial overrides (presets) that can be applied to them.
package preset

import "github.com/lox/galaxygen/galaxy"

// View holds the display-only settings. They never influence the generated
// positions or colors.
type View struct {
	Size        float64 `json:"size"`
	AutoRotate  bool    `json:"auto_rotate"`
	RotateSpeed float64 `json:"rotate_speed"` // degrees per second
}

// Settings is the complete working copy edited by a viewer
type Settings struct {
	Galaxy galaxy.Params `json:"galaxy"`
	View   View          `json:"view"`
}

// DefaultSettings returns the state a fresh viewer starts in
func DefaultSettings() Settings {
	return Settings{
		Galaxy: galaxy.DefaultParams(),
		View: View{
			Size:        1.5,
			AutoRotate:  false,
			RotateSpeed: 12,
		},
	}
}
