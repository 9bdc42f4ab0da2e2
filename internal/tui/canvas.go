package tui

import (
	"strings"

	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/render"
	"github.com/muesli/termenv"
)

// upperHalf draws the top pixel of a cell as foreground and the bottom
// pixel as background, doubling vertical resolution.
const upperHalf = "▀"

// renderCanvas rasterizes cloud into cols x rows terminal cells. Each cell
// covers two vertically stacked pixels.
func renderCanvas(cloud *galaxy.Cloud, cam render.Camera, cols, rows int, pointSize float64, profile termenv.Profile) string {
	if cols < 1 || rows < 1 {
		return ""
	}

	// Terminal cells are roughly twice as tall as wide, so two pixels per
	// cell vertically keeps the aspect ratio square.
	frame := render.Rasterize(cloud, cam, cols, rows*2, pointSize)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			top := frame.At(col, 2*row)
			bottom := frame.At(col, 2*row+1)
			b.WriteString(cell(top, bottom, profile))
		}
	}
	return b.String()
}

func cell(top, bottom galaxy.Color, profile termenv.Profile) string {
	topLit, bottomLit := lit(top), lit(bottom)
	if !topLit && !bottomLit {
		return " "
	}
	if profile == termenv.Ascii {
		return asciiShade(top, bottom)
	}

	s := profile.String(upperHalf).Foreground(profile.Color(top.Hex()))
	if bottomLit {
		s = s.Background(profile.Color(bottom.Hex()))
	}
	return s.String()
}

// lit reports whether c survives quantization to 8 bits
func lit(c galaxy.Color) bool {
	const eps = 0.5 / 255
	return c.R > eps || c.G > eps || c.B > eps
}

// asciiShade picks a density glyph for terminals without color
func asciiShade(top, bottom galaxy.Color) string {
	l := (luma(top) + luma(bottom)) / 2
	switch {
	case l > 0.6:
		return "@"
	case l > 0.3:
		return "*"
	case l > 0.1:
		return "+"
	default:
		return "."
	}
}

func luma(c galaxy.Color) float64 {
	return min(0.2126*c.R+0.7152*c.G+0.0722*c.B, 1)
}
