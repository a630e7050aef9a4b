package spectral

import (
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

// normalizeEpsilon guards the max-normalization against division by zero on
// silent or degenerate residuals.
const normalizeEpsilon = 1e-6

// BandLimit returns the indices of spectrogram bins strictly between fmin
// and fmax in Hz.
func BandLimit(spec *Spectrogram, fmin, fmax float64) []int {
	var band []int
	for bin := 0; bin < spec.NumBins; bin++ {
		f := spec.BinFreq(bin)
		if f > fmin && f < fmax {
			band = append(band, bin)
		}
	}
	return band
}

// MaxNormalize clips the residual to [0, maxDB] and divides by the clipped
// maximum plus a small epsilon. A silent residual therefore normalizes to
// all zeros instead of dividing by zero.
func MaxNormalize(residual []float64, maxDB float64) []float64 {
	out := make([]float64, len(residual))
	maxVal := 0.0
	for i, v := range residual {
		if v < 0 {
			v = 0
		} else if v > maxDB {
			v = maxDB
		}
		out[i] = v
		if v > maxVal {
			maxVal = v
		}
	}
	for i := range out {
		out[i] /= normalizeEpsilon + maxVal
	}
	return out
}

// Fakeprint computes the artifact signature of a mono signal: the
// band-limited, noise-floor-subtracted, max-normalized spectral residual.
// The returned vector has values in [0,1] and its maximum is ~1 unless the
// residual was entirely zero. The spectrogram is returned alongside so
// callers can reuse it for auxiliary features.
func (a *Analyzer) Fakeprint(signal []float64) ([]float64, *Spectrogram, error) {
	spec, err := a.Spectrogram(signal)
	if err != nil {
		return nil, nil, err
	}

	profile := spec.MeanProfile()

	band := BandLimit(spec, conf.MinFreq, conf.MaxFreq)
	curve := make([]float64, len(band))
	for i, bin := range band {
		curve[i] = profile[bin]
	}

	floor := NoiseFloor(curve, conf.HullWindow, conf.NoiseFloorMinDB)
	residual := Residual(curve, floor)
	fakeprint := MaxNormalize(residual, conf.ResidualMaxDB)

	return fakeprint, spec, nil
}
