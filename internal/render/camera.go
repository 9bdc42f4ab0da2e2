// Package render projects galaxy clouds through a perspective camera and
// rasterizes them with additive blending.
package render

import (
	"math"

	"github.com/golang/geo/r3"
)

// Camera looks at the origin from (0, Elevation, Distance). Yaw spins the
// cloud about the y axis before projection, which is how auto-rotation
// is applied.
type Camera struct {
	Distance  float64
	Elevation float64
	FOV       float64 // vertical field of view in degrees
	Near      float64
	Far       float64
	Yaw       float64 // radians
}

// DefaultCamera matches the browser viewer's starting camera
func DefaultCamera() Camera {
	return Camera{
		Distance:  300,
		Elevation: 50,
		FOV:       75,
		Near:      0.1,
		Far:       1000,
	}
}

// Eye returns the camera position
func (c Camera) Eye() r3.Vector {
	return r3.Vector{Y: c.Elevation, Z: c.Distance}
}

// projector caches the camera basis for one frame
type projector struct {
	eye, forward, right, up r3.Vector
	near, far               float64
	sin, cos                float64
	focal                   float64
	cx, cy                  float64
}

func (c Camera) projector(width, height int) projector {
	eye := c.Eye()
	forward := eye.Mul(-1).Normalize()
	right := forward.Cross(r3.Vector{Y: 1}).Normalize()
	up := right.Cross(forward)

	fov := c.FOV * math.Pi / 180
	return projector{
		eye:     eye,
		forward: forward,
		right:   right,
		up:      up,
		near:    c.Near,
		far:     c.Far,
		sin:     math.Sin(c.Yaw),
		cos:     math.Cos(c.Yaw),
		focal:   float64(height) / 2 / math.Tan(fov/2),
		cx:      float64(width) / 2,
		cy:      float64(height) / 2,
	}
}

// project maps a world position to pixel coordinates and view depth. ok is
// false for points outside the near and far planes.
func (p projector) project(v r3.Vector) (x, y, depth float64, ok bool) {
	rotated := r3.Vector{
		X: v.X*p.cos + v.Z*p.sin,
		Y: v.Y,
		Z: -v.X*p.sin + v.Z*p.cos,
	}
	rel := rotated.Sub(p.eye)
	depth = rel.Dot(p.forward)
	if depth <= p.near || depth >= p.far {
		return 0, 0, depth, false
	}
	x = p.cx + rel.Dot(p.right)*p.focal/depth
	y = p.cy - rel.Dot(p.up)*p.focal/depth
	return x, y, depth, true
}

// Project maps v to pixel coordinates in a width x height image
func (c Camera) Project(v r3.Vector, width, height int) (x, y float64, ok bool) {
	x, y, _, ok = c.projector(width, height).project(v)
	return x, y, ok
}
