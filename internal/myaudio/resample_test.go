package myaudio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleAudioSameRateIsIdentity(t *testing.T) {
	t.Parallel()

	in := []float64{0.1, 0.2, 0.3, 0.4}
	out := ResampleAudio(in, 16000, 16000)
	assert.InDeltaSlice(t, in, out, 1e-12)
}

func TestResampleAudioShortInputPassesThrough(t *testing.T) {
	t.Parallel()

	in := []float64{0.1, 0.2, 0.3}
	out := ResampleAudio(in, 44100, 16000)
	assert.InDeltaSlice(t, in, out, 1e-12)
}

func TestResampleAudioLength(t *testing.T) {
	t.Parallel()

	in := make([]float64, 44100)
	out := ResampleAudio(in, 44100, 16000)
	assert.InDelta(t, 16000, len(out), 2)
}

func TestResampleAudioPreservesTone(t *testing.T) {
	t.Parallel()

	// A 440 Hz tone resampled from 48 kHz to 16 kHz should still cross
	// zero about 2*440 times per second.
	const seconds = 1
	in := make([]float64, 48000*seconds)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 48000)
	}

	out := ResampleAudio(in, 48000, 16000)
	require.NotEmpty(t, out)

	crossings := 0
	for i := 1; i < len(out); i++ {
		if (out[i-1] < 0) != (out[i] < 0) {
			crossings++
		}
	}
	assert.InDelta(t, 880*seconds, crossings, 10)
}

func TestGetAudioDivisor(t *testing.T) {
	t.Parallel()

	d, err := getAudioDivisor(16)
	require.NoError(t, err)
	assert.Equal(t, 32768.0, d)

	d, err = getAudioDivisor(24)
	require.NoError(t, err)
	assert.Equal(t, 8388608.0, d)

	_, err = getAudioDivisor(8)
	require.Error(t, err)
}

func TestMixdownAveragesChannels(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, mixdown([]float64{0.0, 1.0}, 2), 1e-12)
	assert.InDelta(t, 0.25, mixdown([]float64{0.25}, 1), 1e-12)
}
