package render

import (
	"math"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Rotator accumulates the auto-rotation angle from elapsed clock time
type Rotator struct {
	clock quartz.Clock

	mu      sync.Mutex
	enabled bool
	speed   float64 // degrees per second
	angle   float64
	last    time.Time
}

// NewRotator creates a stopped rotator
func NewRotator(clock quartz.Clock) *Rotator {
	return &Rotator{clock: clock, last: clock.Now()}
}

// Configure switches rotation on or off and sets its speed. The angle
// reached so far is kept.
func (r *Rotator) Configure(enabled bool, degreesPerSecond float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()
	r.enabled = enabled
	r.speed = degreesPerSecond
}

// Enabled reports whether rotation is on
func (r *Rotator) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Angle returns the current yaw in radians, in [0, 2π)
func (r *Rotator) Angle() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()
	return r.angle
}

// Reset returns the yaw to zero
func (r *Rotator) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.angle = 0
	r.last = r.clock.Now()
}

func (r *Rotator) advance() {
	now := r.clock.Now()
	if r.enabled {
		dt := now.Sub(r.last).Seconds()
		r.angle = math.Mod(r.angle+r.speed*dt*math.Pi/180, 2*math.Pi)
		if r.angle < 0 {
			r.angle += 2 * math.Pi
		}
	}
	r.last = now
}
