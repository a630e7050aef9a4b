package detector

import (
	"math"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/spectral"
)

// ScoreFeatures applies the heuristic rule tables to a feature vector and
// returns the raw score in [0, 100] together with a per-rule breakdown.
// It is a pure function of its input; thresholding and confidence live in
// resultFromScore.
func ScoreFeatures(fv spectral.FeatureVector) (float64, *ScoreDetail) {
	d := &ScoreDetail{
		PeakCountHigh:       fv.PeakCountHigh,
		PeakCountMedium:     fv.PeakCountMedium,
		PeakCountLow:        fv.PeakCountLow,
		PeakDensityHigh:     fv.PeakDensityHigh,
		PeakDensityMedium:   fv.PeakDensityMedium,
		PeakDensityLow:      fv.PeakDensityLow,
		PeakRegularityScore: fv.PeakRegularityScore,
		PeakSpacingStd:      fv.PeakSpacingStd,
		PeakSpacingCV:       fv.PeakSpacingCV,
		FakeprintMean:       fv.Mean,
		FakeprintMax:        fv.Max,
		FakeprintStd:        fv.Std,
		FakeprintP75:        fv.P75,
		FakeprintP90:        fv.P90,
		FakeprintKurtosis:   fv.Kurtosis,
		PeriodicityScore:    fv.PeriodicityScore,
		HighFreqEnergy:      fv.HighFreqEnergy,
		HighFreqRatio:       fv.HighFreqRatio,
	}

	reg := fv.PeakRegularityScore

	// Peak counts. Regular spacing amplifies the medium-count evidence.
	d.PeakCountPoints = mediumPeakBucket.Evaluate(float64(fv.PeakCountMedium)) * (1 + reg)
	d.HighPeakPoints = highPeakBucket.Evaluate(float64(fv.PeakCountHigh))

	// Intensity statistics.
	d.MeanIntensityPoints = meanIntensityBucket.Evaluate(fv.Mean)
	d.MaxIntensityPoints = maxIntensityBucket.Evaluate(fv.Max)
	d.P90Points = p90Bucket.Evaluate(fv.P90)

	// Structure.
	d.PeriodicityPoints = periodicityBucket.Evaluate(fv.PeriodicityScore)
	d.RegularityPoints = reg * 20
	d.KurtosisBonus = kurtosisBonusBucket.Evaluate(fv.Kurtosis)

	// High-frequency content. Near-silent HF bands are a strong synthesis
	// cue when the rest of the print already looks artificial.
	switch {
	case fv.HighFreqEnergy < 1e-7:
		if d.KurtosisBonus > 10 || reg > 0.5 {
			d.HFAdjustment = 10
		} else {
			d.HFAdjustment = 3
		}
	case fv.HighFreqEnergy < 1e-5:
		d.HFAdjustment = 2
	case fv.HighFreqEnergy < 5e-5:
		d.HFAdjustment = -3
	default:
		d.HFAdjustment = 0
	}

	// Combined indicator: moderate kurtosis plus low HF energy plus some
	// spacing regularity rarely co-occur in natural recordings.
	if fv.Kurtosis > 5 && fv.Kurtosis < 10 && fv.HighFreqEnergy < 5e-5 && reg > 0.3 {
		d.CombinedAIIndicator = true
		d.CombinedBonus = 15
	}

	if fv.PeakCountMedium > 50 && reg > 0.6 {
		d.AbundanceBonus = 5
	}

	score := d.PeakCountPoints +
		d.HighPeakPoints +
		d.MeanIntensityPoints +
		d.MaxIntensityPoints +
		d.P90Points +
		d.PeriodicityPoints +
		d.RegularityPoints +
		d.KurtosisBonus +
		d.HFAdjustment +
		d.CombinedBonus +
		d.AbundanceBonus

	score = math.Max(0, math.Min(100, score))
	d.Score = score
	return score, d
}
