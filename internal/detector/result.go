// Package detector scores fakeprint feature vectors and exposes one
// classification contract over both the heuristic rule engine and an
// optionally trained linear model.
package detector

import "math"

// ScoreDetail is the audit record of a heuristic classification: every
// input statistic, bucket contribution, bonus and penalty that went into
// the final score. It is never mutated after creation.
type ScoreDetail struct {
	// Peak counts and densities
	PeakCountHigh     int     `json:"peak_count_high"`
	PeakCountMedium   int     `json:"peak_count_medium"`
	PeakCountLow      int     `json:"peak_count_low"`
	PeakDensityHigh   float64 `json:"peak_density_high"`
	PeakDensityMedium float64 `json:"peak_density_medium"`
	PeakDensityLow    float64 `json:"peak_density_low"`

	// Spacing regularity
	PeakRegularityScore float64 `json:"peak_regularity_score"`
	PeakSpacingStd      float64 `json:"peak_spacing_variance"`
	PeakSpacingCV       float64 `json:"peak_spacing_cv"`

	// Fakeprint distribution statistics
	FakeprintMean     float64 `json:"fakeprint_mean"`
	FakeprintMax      float64 `json:"fakeprint_max"`
	FakeprintStd      float64 `json:"fakeprint_std"`
	FakeprintP75      float64 `json:"fakeprint_p75"`
	FakeprintP90      float64 `json:"fakeprint_p90"`
	FakeprintKurtosis float64 `json:"fakeprint_kurtosis"`

	// Periodicity and energy
	PeriodicityScore float64 `json:"periodicity_score"`
	HighFreqEnergy   float64 `json:"high_freq_energy"`
	HighFreqRatio    float64 `json:"high_freq_ratio"`

	// Bucket contributions
	PeakCountPoints     float64 `json:"peak_count_points"`
	HighPeakPoints      float64 `json:"high_peak_points"`
	MeanIntensityPoints float64 `json:"mean_intensity_points"`
	MaxIntensityPoints  float64 `json:"max_intensity_points"`
	P90Points           float64 `json:"p90_points"`
	PeriodicityPoints   float64 `json:"periodicity_points"`
	RegularityPoints    float64 `json:"regularity_points"`

	// Adjustments
	KurtosisBonus       float64 `json:"kurtosis_bonus"`
	HFAdjustment        float64 `json:"hf_adjustment"`
	CombinedAIIndicator bool    `json:"combined_ia_indicator"`
	CombinedBonus       float64 `json:"combined_bonus"`
	AbundanceBonus      float64 `json:"abundance_bonus"`

	Score float64 `json:"score"`
}

// ClassificationResult is the uniform output contract of both classifier
// modes. AIProbability and HumanProbability are percentages summing to 100.
// Details is only present in heuristic mode.
type ClassificationResult struct {
	IsAIGenerated    bool         `json:"is_ai_generated"`
	Confidence       float64      `json:"confidence"`
	AIProbability    float64      `json:"ai_probability"`
	HumanProbability float64      `json:"human_probability"`
	Details          *ScoreDetail `json:"details,omitempty"`
}

// aiThreshold is the score above which a recording is reported as
// AI-generated.
const aiThreshold = 50.0

// resultFromScore derives the result contract from a 0-100 heuristic score.
func resultFromScore(score float64, detail *ScoreDetail) *ClassificationResult {
	score = math.Max(0, math.Min(score, 100))
	return &ClassificationResult{
		IsAIGenerated:    score > aiThreshold,
		Confidence:       math.Abs(score-aiThreshold) / aiThreshold,
		AIProbability:    score,
		HumanProbability: 100 - score,
		Details:          detail,
	}
}

// resultFromProbability derives the result contract from a trained model's
// class-1 probability. Confidence is the winning class probability, as in
// the model path's native contract.
func resultFromProbability(p float64) *ClassificationResult {
	return &ClassificationResult{
		IsAIGenerated:    p >= 0.5,
		Confidence:       math.Max(p, 1-p),
		AIProbability:    p * 100,
		HumanProbability: (1 - p) * 100,
	}
}
