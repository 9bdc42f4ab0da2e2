package galaxy

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1, G: 0, B: 0}, c)

	c, err = ParseColor("00ff00")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0, G: 1, B: 0}, c)

	c, err = ParseColor("  #0000ff ")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0, G: 0, B: 1}, c)

	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestColorHexRoundTrip(t *testing.T) {
	t.Parallel()

	for _, hex := range []string{"#ff6a00", "#00aaff", "#8b5cf6", "#ffffff", "#000000"} {
		c := MustParseColor(hex)
		assert.Equal(t, hex, c.Hex())
	}

	// Out-of-range channels are clamped for display only.
	assert.Equal(t, "#ff0000", Color{R: 1.7, G: -0.2, B: 0}.Hex())
}

func TestColorJSON(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		C Color `json:"c"`
	}

	data, err := json.Marshal(wrapper{C: MustParseColor("#ff0000")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":{"r":1,"g":0,"b":0}}`, string(data))

	t.Run("channels survive exactly", func(t *testing.T) {
		in := wrapper{C: Color{R: 0.123456789, G: 0.85, B: 1.3}}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out wrapper
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})

	t.Run("hex strings decode", func(t *testing.T) {
		var decoded wrapper
		require.NoError(t, json.Unmarshal([]byte(`{"c":"#4a90e2"}`), &decoded))
		assert.Equal(t, "#4a90e2", decoded.C.Hex())
	})

	t.Run("bad input", func(t *testing.T) {
		var decoded wrapper
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"c":"#nothex"}`), &decoded), ErrInvalidParameter)
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"c":[1,2,3]}`), &decoded), ErrInvalidParameter)
	})
}

func TestInterpolateEndpoints(t *testing.T) {
	t.Parallel()

	start := MustParseColor("#ff6a00")
	end := MustParseColor("#00aaff")

	for _, exp := range []float64{0.1, 0.6, 1, 2.5} {
		assert.Equal(t, start, Interpolate(0, start, end, exp), "t=0 exp=%g", exp)
		assert.Equal(t, end, Interpolate(1, start, end, exp), "t=1 exp=%g", exp)
	}
}

func TestInterpolateLinearMidpoint(t *testing.T) {
	t.Parallel()

	got := Interpolate(0.5, Color{R: 0, G: 0, B: 0}, Color{R: 1, G: 0.5, B: 0.25}, 1)
	assert.InDelta(t, 0.5, got.R, 1e-12)
	assert.InDelta(t, 0.25, got.G, 1e-12)
	assert.InDelta(t, 0.125, got.B, 1e-12)

	shaped := Interpolate(0.5, Color{}, Color{R: 1}, 2)
	assert.InDelta(t, 0.25, shaped.R, 1e-12)
}

func TestInterpolateExponentFloor(t *testing.T) {
	t.Parallel()

	start := MustParseColor("#ffffff")
	end := MustParseColor("#4a90e2")

	for _, tv := range []float64{0, 0.25, 0.5, 0.9, 1, 1.4} {
		floor := Interpolate(tv, start, end, MinColorExponent)
		for _, exp := range []float64{0, -1, -100} {
			got := Interpolate(tv, start, end, exp)
			assert.Equal(t, floor, got, "t=%g exp=%g", tv, exp)
			assert.False(t, math.IsNaN(got.R) || math.IsInf(got.R, 0))
		}
	}
}

func TestInterpolateDoesNotClamp(t *testing.T) {
	t.Parallel()

	got := Interpolate(2, Color{R: 0}, Color{R: 1}, 1)
	assert.InDelta(t, 2.0, got.R, 1e-12)
}
