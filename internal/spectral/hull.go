package spectral

// Hull is a sparse lower envelope of a spectral curve: strictly increasing
// indices into the curve with the local-minimum values found there. The
// first and last index of the curve are always present.
type Hull struct {
	Indices []int
	Values  []float64
}

// LowerHull slides a window of the given width across the curve and records
// the absolute index of each window's minimum, deduplicated in first-seen
// order, then anchors the result to both ends of the curve.
//
// Curves shorter than the window cannot support the sliding pass; they
// yield the degenerate two-anchor hull (or a single point for length-1
// input) so that downstream stages see a flat floor instead of an error.
func LowerHull(curve []float64, windowWidth int) Hull {
	if len(curve) == 0 {
		return Hull{}
	}
	if len(curve) < windowWidth {
		if len(curve) == 1 {
			return Hull{Indices: []int{0}, Values: []float64{curve[0]}}
		}
		last := len(curve) - 1
		return Hull{
			Indices: []int{0, last},
			Values:  []float64{curve[0], curve[last]},
		}
	}

	seen := make(map[int]bool)
	var indices []int
	var values []float64

	for i := 0; i+windowWidth <= len(curve); i++ {
		minIdx := i
		minVal := curve[i]
		for j := i + 1; j < i+windowWidth; j++ {
			if curve[j] < minVal {
				minVal = curve[j]
				minIdx = j
			}
		}
		if !seen[minIdx] {
			seen[minIdx] = true
			indices = append(indices, minIdx)
			values = append(values, minVal)
		}
	}

	if indices[0] != 0 {
		indices = append([]int{0}, indices...)
		values = append([]float64{curve[0]}, values...)
	}
	last := len(curve) - 1
	if indices[len(indices)-1] != last {
		indices = append(indices, last)
		values = append(values, curve[last])
	}

	return Hull{Indices: indices, Values: values}
}

// Interpolate evaluates the hull at every integer position 0..length-1
// using piecewise quadratic interpolation through neighboring hull points,
// extrapolating with the boundary parabola outside the hull's span.
func (h Hull) Interpolate(length int) []float64 {
	out := make([]float64, length)
	n := len(h.Indices)

	switch n {
	case 0:
		return out
	case 1:
		for i := range out {
			out[i] = h.Values[0]
		}
		return out
	case 2:
		x0, x1 := float64(h.Indices[0]), float64(h.Indices[1])
		y0, y1 := h.Values[0], h.Values[1]
		slope := (y1 - y0) / (x1 - x0)
		for i := range out {
			out[i] = y0 + slope*(float64(i)-x0)
		}
		return out
	}

	for i := range out {
		x := float64(i)

		// Locate the segment containing x; clamp to the boundary
		// segments beyond the hull's span so the edge parabola
		// extrapolates.
		seg := 0
		for seg < n-2 && x > float64(h.Indices[seg+1]) {
			seg++
		}

		// Center the parabola on the segment: points seg-1, seg, seg+1,
		// shifted right at the left boundary.
		p := seg
		if p == 0 {
			p = 1
		}
		if p > n-2 {
			p = n - 2
		}

		out[i] = lagrangeQuadratic(
			float64(h.Indices[p-1]), h.Values[p-1],
			float64(h.Indices[p]), h.Values[p],
			float64(h.Indices[p+1]), h.Values[p+1],
			x,
		)
	}

	return out
}

// lagrangeQuadratic evaluates the parabola through three points at x.
func lagrangeQuadratic(x0, y0, x1, y1, x2, y2, x float64) float64 {
	l0 := (x - x1) * (x - x2) / ((x0 - x1) * (x0 - x2))
	l1 := (x - x0) * (x - x2) / ((x1 - x0) * (x1 - x2))
	l2 := (x - x0) * (x - x1) / ((x2 - x0) * (x2 - x1))
	return y0*l0 + y1*l1 + y2*l2
}

// NoiseFloor interpolates the hull across the curve's domain and clips it
// from below at minDB. There is no upper clip: the floor may rise above
// minDB where the data supports it.
func NoiseFloor(curve []float64, windowWidth int, minDB float64) []float64 {
	hull := LowerHull(curve, windowWidth)
	floor := hull.Interpolate(len(curve))
	for i, v := range floor {
		if v < minDB {
			floor[i] = minDB
		}
	}
	return floor
}

// Residual returns max(0, curve-floor) elementwise: the energy lying above
// the local noise floor.
func Residual(curve, floor []float64) []float64 {
	residual := make([]float64, len(curve))
	for i := range curve {
		if d := curve[i] - floor[i]; d > 0 {
			residual[i] = d
		}
	}
	return residual
}
