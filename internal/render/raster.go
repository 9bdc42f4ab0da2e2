package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lox/galaxygen/galaxy"
)

// Frame is a linear float RGB accumulation buffer. Points add into it; values
// above 1 are kept until the frame is converted to an image.
type Frame struct {
	Width, Height int
	Pix           []float64 // 3 entries per pixel, row-major
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pix: make([]float64, 3*width*height)}
}

// At returns the accumulated color of pixel (x, y)
func (f *Frame) At(x, y int) galaxy.Color {
	i := 3 * (y*f.Width + x)
	return galaxy.Color{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2]}
}

func (f *Frame) add(x, y int, c galaxy.Color, weight float64) {
	i := 3 * (y*f.Width + x)
	f.Pix[i] += c.R * weight
	f.Pix[i+1] += c.G * weight
	f.Pix[i+2] += c.B * weight
}

// Image converts the frame to 8-bit RGBA. Channels saturate at 1.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255})
		}
	}
	return img
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Rasterize draws cloud into a new frame. Each point is a round sprite whose
// diameter is pointSize world units at its depth (at least one pixel), faded
// towards the rim and blended additively.
func Rasterize(cloud *galaxy.Cloud, cam Camera, width, height int, pointSize float64) *Frame {
	frame := NewFrame(width, height)
	if cloud == nil || width <= 0 || height <= 0 {
		return frame
	}

	proj := cam.projector(width, height)
	for _, pt := range cloud.Points {
		x, y, depth, ok := proj.project(pt.Position)
		if !ok {
			continue
		}
		radius := pointSize * proj.focal / depth / 2
		splat(frame, x, y, radius, pt.Color)
	}
	return frame
}

// splat adds one sprite centered on (cx, cy)
func splat(f *Frame, cx, cy, radius float64, c galaxy.Color) {
	if radius < 0.5 {
		px, py := int(math.Floor(cx)), int(math.Floor(cy))
		if px >= 0 && px < f.Width && py >= 0 && py < f.Height {
			f.add(px, py, c, 1)
		}
		return
	}

	x0 := max(int(math.Floor(cx-radius)), 0)
	x1 := min(int(math.Ceil(cx+radius)), f.Width-1)
	y0 := max(int(math.Floor(cy-radius)), 0)
	y1 := min(int(math.Ceil(cy+radius)), f.Height-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			if w := falloff(math.Hypot(dx, dy) / radius); w > 0 {
				f.add(px, py, c, w)
			}
		}
	}
}

// falloff is the sprite alpha at normalized distance rho from its center.
// Fragments fainter than 0.2 are discarded.
func falloff(rho float64) float64 {
	var a float64
	switch {
	case rho >= 1:
		return 0
	case rho < 0.2:
		a = 1 - rho
	case rho < 0.4:
		a = 0.8 - 2*(rho-0.2)
	default:
		a = 0.4 - (rho-0.4)*(0.4/0.6)
	}
	if a < 0.2 {
		return 0
	}
	return a
}

// EncodePNG writes the frame as a PNG image
func EncodePNG(w io.Writer, f *Frame) error {
	return png.Encode(w, f.Image())
}
