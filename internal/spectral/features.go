package spectral

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FeatureVector holds the scalar descriptors derived from a fakeprint and
// its source spectrogram. Field semantics follow the heuristic scorer's
// calibration; in particular Kurtosis is mean((x-μ)⁴)/(σ⁴+1e-10) without
// the excess-kurtosis offset.
type FeatureVector struct {
	PeakCountHigh   int // fakeprint samples above 0.5
	PeakCountMedium int // fakeprint samples above 0.3
	PeakCountLow    int // fakeprint samples above 0.1

	PeakDensityHigh   float64
	PeakDensityMedium float64
	PeakDensityLow    float64

	// Spacing statistics over consecutive medium-peak index differences,
	// all zero when there are 3 or fewer medium peaks.
	PeakSpacingStd      float64
	PeakSpacingMean     float64
	PeakSpacingCV       float64
	PeakRegularityScore float64

	Mean     float64
	Max      float64
	Std      float64
	P75      float64
	P90      float64
	Kurtosis float64

	PeriodicityScore float64

	HighFreqEnergy float64
	HighFreqRatio  float64
}

// Peak detection thresholds over the normalized fakeprint.
const (
	peakThresholdHigh   = 0.5
	peakThresholdMedium = 0.3
	peakThresholdLow    = 0.1
)

// minPeaksForSpacing is the medium-peak count above which spacing
// regularity is computed.
const minPeaksForSpacing = 3

// ExtractFeatures derives the feature vector from a fakeprint and the mean
// high-frequency STFT magnitude of its source spectrogram. Non-finite
// intermediate statistics are neutralized to 0 at the point of computation.
func ExtractFeatures(fakeprint []float64, highFreqEnergy float64) FeatureVector {
	var fv FeatureVector

	var mediumPeaks []int
	for i, v := range fakeprint {
		if v > peakThresholdHigh {
			fv.PeakCountHigh++
		}
		if v > peakThresholdMedium {
			fv.PeakCountMedium++
			mediumPeaks = append(mediumPeaks, i)
		}
		if v > peakThresholdLow {
			fv.PeakCountLow++
		}
	}

	if n := len(fakeprint); n > 0 {
		fv.PeakDensityHigh = float64(fv.PeakCountHigh) / float64(n)
		fv.PeakDensityMedium = float64(fv.PeakCountMedium) / float64(n)
		fv.PeakDensityLow = float64(fv.PeakCountLow) / float64(n)
	}

	if len(mediumPeaks) > minPeaksForSpacing {
		spacings := make([]float64, len(mediumPeaks)-1)
		for i := 1; i < len(mediumPeaks); i++ {
			spacings[i-1] = float64(mediumPeaks[i] - mediumPeaks[i-1])
		}

		fv.PeakSpacingStd = nanToNum(stat.PopStdDev(spacings, nil))
		fv.PeakSpacingMean = nanToNum(stat.Mean(spacings, nil))
		if fv.PeakSpacingMean > 0 {
			fv.PeakSpacingCV = fv.PeakSpacingStd / fv.PeakSpacingMean
		}
		fv.PeakRegularityScore = RegularityScore(fv.PeakSpacingCV)
	}

	if len(fakeprint) > 0 {
		fv.Mean = nanToNum(stat.Mean(fakeprint, nil))
		fv.Max = nanToNum(floats.Max(fakeprint))
		fv.Std = nanToNum(stat.PopStdDev(fakeprint, nil))
		fv.P75 = percentile(fakeprint, 75)
		fv.P90 = percentile(fakeprint, 90)
		fv.Kurtosis = kurtosisLike(fakeprint, fv.Mean, fv.Std)
	}

	fv.PeriodicityScore = periodicityScore(fakeprint, fv.Mean)

	fv.HighFreqEnergy = nanToNum(highFreqEnergy)
	sumSquares := 0.0
	for _, v := range fakeprint {
		sumSquares += v * v
	}
	fv.HighFreqRatio = fv.HighFreqEnergy / (sumSquares + 1e-10)

	return fv
}

// RegularityScore maps a spacing coefficient-of-variation to [0,1]. Lower
// cv means more even spacing, which synthesis artifacts exhibit and natural
// harmonics do not, so the schedule is non-increasing in cv.
func RegularityScore(cv float64) float64 {
	switch {
	case cv < 0.3:
		return math.Min(1, 0.8+(0.3-cv)*0.67)
	case cv < 0.5:
		return 0.5 + (0.5-cv)*1.5
	case cv < 0.7:
		return 0.3 + (0.7-cv)*1.0
	default:
		return math.Max(0, 0.3-(cv-0.7)*0.5)
	}
}

// kurtosisLike computes mean((x-μ)⁴)/(σ⁴+1e-10). This is deliberately not
// excess kurtosis: the scorer thresholds are calibrated against this exact
// quantity.
func kurtosisLike(x []float64, mean, std float64) float64 {
	sum := 0.0
	for _, v := range x {
		d := v - mean
		sum += d * d * d * d
	}
	m4 := sum / float64(len(x))
	return nanToNum(m4 / (std*std*std*std + 1e-10))
}

// percentile returns the p-th percentile using linear interpolation between
// closest ranks at position (n-1)·p/100. gonum's stat.Quantile uses a
// different quantile convention; the scorer thresholds assume this one.
func percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return nanToNum(sorted[lo])
	}
	frac := pos - float64(lo)
	return nanToNum(sorted[lo] + frac*(sorted[hi]-sorted[lo]))
}

// maxPeriodicityLag bounds the autocorrelation search for secondary peaks.
const maxPeriodicityLag = 50

// periodicityScore returns the strongest normalized autocorrelation value
// among lags 2..min(50, n)-1 of the zero-meaned fakeprint, or 0 when the
// fakeprint has 10 or fewer samples or no such lag exists.
func periodicityScore(fakeprint []float64, mean float64) float64 {
	n := len(fakeprint)
	if n <= 10 {
		return 0
	}

	centered := make([]float64, n)
	for i, v := range fakeprint {
		centered[i] = v - mean
	}

	lag0 := floats.Dot(centered, centered)

	maxLag := maxPeriodicityLag
	if n < maxLag {
		maxLag = n
	}
	if maxLag <= 2 {
		return 0
	}

	best := math.Inf(-1)
	for lag := 2; lag < maxLag; lag++ {
		r := floats.Dot(centered[:n-lag], centered[lag:])
		if v := r / (lag0 + 1e-10); v > best {
			best = v
		}
	}

	return nanToNum(best)
}

// nanToNum replaces NaN and Inf with 0.
func nanToNum(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
