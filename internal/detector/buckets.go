package detector

import "math"

// The heuristic rule tables. Each bucket is an ordered list of
// (range, formula) pieces evaluated by a single generic routine, so each
// bucket can be tested and audited on its own.

// Range is a numeric interval with per-bound inclusivity.
type Range struct {
	Min, Max               float64
	IncludeMin, IncludeMax bool
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	if v < r.Min || (v == r.Min && !r.IncludeMin) {
		return false
	}
	if v > r.Max || (v == r.Max && !r.IncludeMax) {
		return false
	}
	return true
}

// BucketPiece pairs a range with the points formula applied inside it.
type BucketPiece struct {
	Range  Range
	Points func(v float64) float64
}

// Bucket is an ordered piecewise scoring table. The first piece whose
// range contains the value wins.
type Bucket struct {
	Name   string
	Pieces []BucketPiece
}

// Evaluate returns the points for v, or 0 when no piece matches.
func (b Bucket) Evaluate(v float64) float64 {
	for _, p := range b.Pieces {
		if p.Range.Contains(v) {
			return p.Points(v)
		}
	}
	return 0
}

func closed(min, max float64) Range {
	return Range{Min: min, Max: max, IncludeMin: true, IncludeMax: true}
}

func above(min float64) Range {
	return Range{Min: min, Max: math.Inf(1), IncludeMax: true}
}

func below(max float64) Range {
	return Range{Min: math.Inf(-1), Max: max, IncludeMin: true, IncludeMax: true}
}

func halfOpen(min, max float64) Range {
	return Range{Min: min, Max: max, IncludeMax: true}
}

func constPoints(p float64) func(float64) float64 {
	return func(float64) float64 { return p }
}

// mediumPeakBucket scores the medium-threshold peak count. The 50-150
// range is where synthesis artifacts typically land; its output is scaled
// by (1 + regularity) in the scorer.
var mediumPeakBucket = Bucket{
	Name: "peak_count_medium",
	Pieces: []BucketPiece{
		{closed(50, 150), constPoints(20)},
		{below(50), func(v float64) float64 { return v * 0.3 }},
		{above(150), func(v float64) float64 { return 20 - math.Min(20, (v-150)*0.1) }},
	},
}

// highPeakBucket scores the high-threshold peak count; many strong peaks
// point back toward natural harmonics.
var highPeakBucket = Bucket{
	Name: "peak_count_high",
	Pieces: []BucketPiece{
		{closed(5, 30), constPoints(15)},
		{below(5), func(v float64) float64 { return v * 3.0 }},
		{above(30), func(v float64) float64 { return 15 - math.Min(10, (v-30)*0.2) }},
	},
}

// meanIntensityBucket scores the fakeprint mean; a moderate mean is more
// suspicious than a very high one.
var meanIntensityBucket = Bucket{
	Name: "fakeprint_mean",
	Pieces: []BucketPiece{
		{closed(0.06, 0.10), constPoints(15)},
		{below(0.06), func(v float64) float64 { return v * 250 }},
		{halfOpen(0.10, 0.12), constPoints(10)},
		{above(0.12), func(v float64) float64 { return math.Max(0, 8-(v-0.12)*80) }},
	},
}

// maxIntensityBucket scores the fakeprint maximum with low weight, a
// maximum of 1.0 is common in both classes.
var maxIntensityBucket = Bucket{
	Name: "fakeprint_max",
	Pieces: []BucketPiece{
		{Range{Min: 0.8, Max: math.Inf(1), IncludeMax: true}, constPoints(8)},
		{halfOpen(0.6, 0.8), constPoints(6)},
		{below(0.6), func(v float64) float64 { return v * 10 }},
	},
}

// p90Bucket scores the 90th percentile of the fakeprint.
var p90Bucket = Bucket{
	Name: "fakeprint_p90",
	Pieces: []BucketPiece{
		{closed(0.12, 0.22), constPoints(10)},
		{below(0.12), func(v float64) float64 { return v * 80 }},
		{halfOpen(0.22, 0.28), constPoints(5)},
		{above(0.28), func(v float64) float64 { return math.Max(0, 3-(v-0.28)*15) }},
	},
}

// periodicityBucket scores spectral self-similarity from the fakeprint
// autocorrelation.
var periodicityBucket = Bucket{
	Name: "periodicity_score",
	Pieces: []BucketPiece{
		{Range{Min: 0.5, Max: math.Inf(1), IncludeMax: true}, constPoints(12)},
		{halfOpen(0.40, 0.5), constPoints(8)},
		{halfOpen(0.30, 0.40), constPoints(4)},
		{halfOpen(0.20, 0.30), constPoints(2)},
		{below(0.20), func(v float64) float64 { return v * 8 }},
	},
}

// kurtosisBonusBucket rewards a peaked fakeprint distribution. Natural
// recordings sit near 3, synthesis artifacts can exceed 10.
var kurtosisBonusBucket = Bucket{
	Name: "kurtosis_bonus",
	Pieces: []BucketPiece{
		{Range{Min: 15, Max: math.Inf(1), IncludeMax: true}, constPoints(20)},
		{halfOpen(10, 15), func(v float64) float64 { return 15 + (v - 10) }},
		{halfOpen(6, 10), func(v float64) float64 { return 8 + (v-6)*1.75 }},
		{halfOpen(4, 6), func(v float64) float64 { return (v - 4) * 4 }},
		{below(4), constPoints(0)},
	},
}
