package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowerHullInvariants(t *testing.T) {
	t.Parallel()

	// Deterministic wavy curve with local minima away from the edges.
	curve := make([]float64, 200)
	for i := range curve {
		curve[i] = -40 + 10*math.Sin(float64(i)/7) + 5*math.Cos(float64(i)/3)
	}

	hull := LowerHull(curve, 10)
	require.NotEmpty(t, hull.Indices)
	require.Len(t, hull.Values, len(hull.Indices))

	assert.Equal(t, 0, hull.Indices[0], "hull anchors the first sample")
	assert.Equal(t, len(curve)-1, hull.Indices[len(hull.Indices)-1], "hull anchors the last sample")

	for i := 1; i < len(hull.Indices); i++ {
		assert.Greater(t, hull.Indices[i], hull.Indices[i-1], "indices strictly increase")
	}
	for i, idx := range hull.Indices {
		assert.Equal(t, curve[idx], hull.Values[i], "hull values come from the curve")
	}
}

func TestLowerHullShortCurve(t *testing.T) {
	t.Parallel()

	curve := []float64{3, 1, 2, 0, 5}
	hull := LowerHull(curve, 10)
	assert.Equal(t, []int{0, 4}, hull.Indices)
	assert.Equal(t, []float64{3, 5}, hull.Values)

	single := LowerHull([]float64{7}, 10)
	assert.Equal(t, []int{0}, single.Indices)

	empty := LowerHull(nil, 10)
	assert.Empty(t, empty.Indices)
}

func TestInterpolateReproducesParabola(t *testing.T) {
	t.Parallel()

	// Three points of y = x^2 - 4x: quadratic interpolation through them
	// must reproduce the parabola everywhere, including between segments.
	f := func(x float64) float64 { return x*x - 4*x }
	hull := Hull{
		Indices: []int{0, 5, 12},
		Values:  []float64{f(0), f(5), f(12)},
	}

	floor := hull.Interpolate(13)
	for i, v := range floor {
		assert.InDelta(t, f(float64(i)), v, 1e-9, "position %d", i)
	}
}

func TestInterpolateDegenerateHulls(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{0, 0, 0}, Hull{}.Interpolate(3))

	constant := Hull{Indices: []int{0}, Values: []float64{-42}}
	for _, v := range constant.Interpolate(4) {
		assert.Equal(t, -42.0, v)
	}

	linear := Hull{Indices: []int{0, 4}, Values: []float64{0, 8}}
	got := linear.Interpolate(5)
	assert.InDeltaSlice(t, []float64{0, 2, 4, 6, 8}, got, 1e-9)
}

func TestNoiseFloorClipsFromBelow(t *testing.T) {
	t.Parallel()

	// A deeply silent curve: the interpolated hull sits at -100 dB and the
	// floor is raised to the configured minimum.
	curve := make([]float64, 50)
	for i := range curve {
		curve[i] = -100
	}

	floor := NoiseFloor(curve, 10, -45)
	for _, v := range floor {
		assert.Equal(t, -45.0, v)
	}
}

func TestResidualIsNonNegative(t *testing.T) {
	t.Parallel()

	curve := []float64{-50, -30, -45, -10, -45}
	floor := []float64{-45, -45, -45, -45, -45}

	residual := Residual(curve, floor)
	assert.InDeltaSlice(t, []float64{0, 15, 0, 35, 0}, residual, 1e-9)
}
