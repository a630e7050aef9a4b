package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

func TestSpectrogramFrameCount(t *testing.T) {
	t.Parallel()

	a := NewAnalyzerWithConfig(16000, 1024, 256)

	tests := []struct {
		samples    int
		wantFrames int
	}{
		{0, 1},    // zero-padded single frame
		{100, 1},  // shorter than one window
		{1024, 1}, // exactly one window
		{1280, 2}, // one hop past the window
		{1024 + 5*256, 6},
	}
	for _, tt := range tests {
		spec, err := a.Spectrogram(make([]float64, tt.samples))
		require.NoError(t, err)
		assert.Equal(t, tt.wantFrames, spec.NumFrames, "samples=%d", tt.samples)
		assert.Equal(t, 513, spec.NumBins)
	}
}

func TestSpectrogramDBRange(t *testing.T) {
	t.Parallel()

	a := NewAnalyzerWithConfig(16000, 1024, 256)
	signal := make([]float64, 4096)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / 16000)
	}

	spec, err := a.Spectrogram(signal)
	require.NoError(t, err)

	// Power is clipped to [1e-10, 1e6] before the dB conversion.
	for bin := 0; bin < spec.NumBins; bin++ {
		for frame := 0; frame < spec.NumFrames; frame++ {
			v := spec.DB[bin][frame]
			assert.GreaterOrEqual(t, v, -100.0)
			assert.LessOrEqual(t, v, 60.0)
		}
	}
}

func TestSpectrogramHighFreqEnergyAtNativeRate(t *testing.T) {
	t.Parallel()

	// The Nyquist at the analysis rate equals the high-frequency cutoff,
	// so no bin lies strictly above it.
	a := NewAnalyzer()
	signal := make([]float64, conf.FFTSize)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 7000 * float64(i) / float64(conf.SampleRate))
	}

	spec, err := a.Spectrogram(signal)
	require.NoError(t, err)
	assert.Zero(t, spec.HighFreqEnergy)
}

func TestSpectrogramHighFreqEnergyAtHigherRate(t *testing.T) {
	t.Parallel()

	// At 44.1 kHz there are bins above 8 kHz; a 10 kHz tone must register.
	a := NewAnalyzerWithConfig(44100, 2048, 512)
	signal := make([]float64, 8192)
	for i := range signal {
		signal[i] = 0.8 * math.Sin(2*math.Pi*10000*float64(i)/44100)
	}

	spec, err := a.Spectrogram(signal)
	require.NoError(t, err)
	assert.Positive(t, spec.HighFreqEnergy)
}

func TestMeanProfile(t *testing.T) {
	t.Parallel()

	spec := &Spectrogram{
		DB:        [][]float64{{-10, -20}, {-30, -50}},
		NumBins:   2,
		NumFrames: 2,
	}
	profile := spec.MeanProfile()
	assert.InDeltaSlice(t, []float64{-15, -40}, profile, 1e-9)
}

func TestBinFreq(t *testing.T) {
	t.Parallel()

	spec := &Spectrogram{NumBins: conf.FFTSize/2 + 1, SampleRate: conf.SampleRate}
	assert.Zero(t, spec.BinFreq(0))
	assert.InDelta(t, float64(conf.SampleRate)/2, spec.BinFreq(spec.NumBins-1), 1e-9)
}
