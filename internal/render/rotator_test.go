package render

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
)

func TestRotatorAdvancesWithClock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	r := NewRotator(clock)

	clock.Advance(time.Second).MustWait(ctx)
	assert.Zero(t, r.Angle(), "stopped rotator must not move")

	r.Configure(true, 90)
	clock.Advance(time.Second).MustWait(ctx)
	assert.InDelta(t, math.Pi/2, r.Angle(), 1e-9)

	clock.Advance(500 * time.Millisecond).MustWait(ctx)
	assert.InDelta(t, 3*math.Pi/4, r.Angle(), 1e-9)

	r.Configure(false, 90)
	clock.Advance(10 * time.Second).MustWait(ctx)
	assert.InDelta(t, 3*math.Pi/4, r.Angle(), 1e-9)
	assert.False(t, r.Enabled())
}

func TestRotatorWrapsAndReverses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	r := NewRotator(clock)

	r.Configure(true, 360)
	clock.Advance(1250 * time.Millisecond).MustWait(ctx)
	assert.InDelta(t, math.Pi/2, r.Angle(), 1e-9)

	r.Configure(true, -180)
	clock.Advance(time.Second).MustWait(ctx)
	assert.InDelta(t, 3*math.Pi/2, r.Angle(), 1e-9)

	r.Reset()
	assert.Zero(t, r.Angle())
}
