// Package spectral implements the fakeprint analysis pipeline: STFT
// spectrogram, lower-hull noise floor, band-limited spectral residual and
// the scalar features derived from it.
package spectral

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/errors"
)

// Power clip bounds for the dB conversion. The lower bound avoids -Inf on
// silent bins, the upper bound caps dynamic range.
const (
	powerClipMin = 1e-10
	powerClipMax = 1e6
)

// Spectrogram holds a dB-scaled power spectrogram indexed [bin][frame],
// plus the mean high-frequency STFT magnitude accumulated during analysis.
// Instances are immutable once produced.
type Spectrogram struct {
	DB         [][]float64 // dB magnitudes, [frequency bin][time frame]
	NumBins    int
	NumFrames  int
	SampleRate int

	// HighFreqEnergy is the mean STFT magnitude over bins strictly above
	// conf.HighFreqCutoff Hz, 0 when no bin qualifies.
	HighFreqEnergy float64
}

// BinFreq returns the center frequency in Hz of the given bin.
func (s *Spectrogram) BinFreq(bin int) float64 {
	if s.NumBins < 2 {
		return 0
	}
	return float64(bin) * float64(s.SampleRate) / 2 / float64(s.NumBins-1)
}

// MeanProfile returns the time-average of the spectrogram per frequency bin.
func (s *Spectrogram) MeanProfile() []float64 {
	profile := make([]float64, s.NumBins)
	if s.NumFrames == 0 {
		return profile
	}
	for bin := 0; bin < s.NumBins; bin++ {
		sum := 0.0
		for frame := 0; frame < s.NumFrames; frame++ {
			sum += s.DB[bin][frame]
		}
		profile[bin] = sum / float64(s.NumFrames)
	}
	return profile
}

// Analyzer computes spectrograms and fakeprints from mono PCM signals.
// It is safe for concurrent use once constructed: each call allocates its
// own working buffers.
type Analyzer struct {
	sampleRate int
	fftSize    int
	hopSize    int
	win        []float64
}

// NewAnalyzer creates an analyzer with the application analysis constants.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(conf.SampleRate, conf.FFTSize, conf.HopSize)
}

// NewAnalyzerWithConfig creates an analyzer with explicit STFT parameters.
func NewAnalyzerWithConfig(sampleRate, fftSize, hopSize int) *Analyzer {
	win := make([]float64, fftSize)
	for i := range win {
		win[i] = 1
	}
	window.Hann(win)

	return &Analyzer{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		hopSize:    hopSize,
		win:        win,
	}
}

// SampleRate returns the analyzer's expected input sample rate.
func (a *Analyzer) SampleRate() int {
	return a.sampleRate
}

// Spectrogram computes the dB-scaled power spectrogram of a mono signal.
// Signals shorter than one FFT window are zero-padded to a single frame, so
// even degenerate input produces a valid (near-silent) spectrogram.
func (a *Analyzer) Spectrogram(signal []float64) (*Spectrogram, error) {
	plan, err := algofft.NewPlan64(a.fftSize)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryAudioAnalysis).
			Context("operation", "fft-plan").
			Build()
	}

	numFrames := 1
	if len(signal) > a.fftSize {
		numFrames = 1 + (len(signal)-a.fftSize)/a.hopSize
	}
	numBins := a.fftSize/2 + 1

	db := make([][]float64, numBins)
	for bin := range db {
		db[bin] = make([]float64, numFrames)
	}

	// High-frequency magnitude accumulation: bins strictly above the
	// cutoff. At a 16 kHz analysis rate the Nyquist is 8 kHz so the set is
	// empty and the energy stays 0; the scorer is calibrated for that.
	binHz := float64(a.sampleRate) / 2 / float64(numBins-1)
	firstHighBin := numBins
	for bin := 0; bin < numBins; bin++ {
		if float64(bin)*binHz > conf.HighFreqCutoff {
			firstHighBin = bin
			break
		}
	}

	in := make([]complex128, a.fftSize)
	out := make([]complex128, a.fftSize)

	hfSum := 0.0
	hfCount := 0

	for frame := 0; frame < numFrames; frame++ {
		offset := frame * a.hopSize
		for i := 0; i < a.fftSize; i++ {
			sample := 0.0
			if offset+i < len(signal) {
				sample = signal[offset+i]
			}
			in[i] = complex(sample*a.win[i], 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryAudioAnalysis).
				Context("operation", "fft-forward").
				Build()
		}

		for bin := 0; bin < numBins; bin++ {
			re := real(out[bin])
			im := imag(out[bin])
			power := re*re + im*im

			if bin >= firstHighBin {
				hfSum += math.Sqrt(power)
				hfCount++
			}

			if power < powerClipMin {
				power = powerClipMin
			} else if power > powerClipMax {
				power = powerClipMax
			}
			db[bin][frame] = 10 * math.Log10(power)
		}
	}

	spec := &Spectrogram{
		DB:         db,
		NumBins:    numBins,
		NumFrames:  numFrames,
		SampleRate: a.sampleRate,
	}
	if hfCount > 0 {
		spec.HighFreqEnergy = nanToNum(hfSum / float64(hfCount))
	}

	return spec, nil
}
