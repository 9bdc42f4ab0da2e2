package galaxy

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the radial distribution of a cloud. Distances are
// normalized by Params.Radius.
type Summary struct {
	Count          int       `json:"count"`
	MeanDistance   float64   `json:"mean_distance"`
	StdDistance    float64   `json:"std_distance"`
	MedianDistance float64   `json:"median_distance"`
	P90Distance    float64   `json:"p90_distance"`
	MaxDistance    float64   `json:"max_distance"`
	BeyondRadius   float64   `json:"beyond_radius"` // fraction of points with distance > 1
	Min            r3.Vector `json:"min"`
	Max            r3.Vector `json:"max"`
}

// Summarize computes the Summary of c. An empty cloud yields a zero Summary.
func Summarize(c *Cloud) Summary {
	n := len(c.Points)
	if n == 0 {
		return Summary{}
	}

	distances := make([]float64, n)
	lo := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	beyond := 0
	for i, pt := range c.Points {
		d := pt.Position.Norm() / c.Params.Radius
		distances[i] = d
		if d > 1 {
			beyond++
		}
		lo = r3.Vector{X: math.Min(lo.X, pt.Position.X), Y: math.Min(lo.Y, pt.Position.Y), Z: math.Min(lo.Z, pt.Position.Z)}
		hi = r3.Vector{X: math.Max(hi.X, pt.Position.X), Y: math.Max(hi.Y, pt.Position.Y), Z: math.Max(hi.Z, pt.Position.Z)}
	}

	mean, std := stat.MeanStdDev(distances, nil)
	if n < 2 {
		std = 0
	}

	sort.Float64s(distances)
	return Summary{
		Count:          n,
		MeanDistance:   mean,
		StdDistance:    std,
		MedianDistance: stat.Quantile(0.5, stat.Empirical, distances, nil),
		P90Distance:    stat.Quantile(0.9, stat.Empirical, distances, nil),
		MaxDistance:    distances[n-1],
		BeyondRadius:   float64(beyond) / float64(n),
		Min:            lo,
		Max:            hi,
	}
}
