// Package myaudio provides audio file decoding for the analysis pipeline.
package myaudio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/errors"
)

// AudioInfo contains basic information about an audio file
type AudioInfo struct {
	SampleRate   int
	TotalSamples int
	NumChannels  int
	BitDepth     int
}

// Duration returns the audio duration in seconds
func (info *AudioInfo) Duration() float64 {
	if info.SampleRate == 0 {
		return 0
	}
	return float64(info.TotalSamples) / float64(info.SampleRate)
}

// GetAudioInfo returns basic information about the audio file without
// decoding the whole stream.
func GetAudioInfo(filePath string) (AudioInfo, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return AudioInfo{}, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(filePath, -1).
			Build()
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".wav":
		return readWAVInfo(file)
	case ".flac":
		return readFLACInfo(file)
	case ".mp3":
		return readMP3Info(file)
	default:
		return AudioInfo{}, fmt.Errorf("unsupported audio format: %s", filepath.Ext(filePath))
	}
}

// ReadAudioFile decodes the given audio file into a mono float64 signal at
// conf.SampleRate. At most conf.MaxDuration seconds of audio are decoded,
// the cap is applied at the source sample rate before resampling.
func ReadAudioFile(filePath string, settings *conf.Settings) ([]float64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(filePath, -1).
			Build()
	}
	defer file.Close()

	var samples []float64
	var sourceRate int

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".wav":
		samples, sourceRate, err = readWAV(file, settings)
	case ".flac":
		samples, sourceRate, err = readFLAC(file, settings)
	case ".mp3":
		samples, sourceRate, err = readMP3(file, settings)
	default:
		err = fmt.Errorf("unsupported audio format: %s", filepath.Ext(filePath))
	}
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryAudioDecode).
			FileContext(filePath, -1).
			Build()
	}

	if sourceRate != conf.SampleRate {
		samples = ResampleAudio(samples, sourceRate, conf.SampleRate)
	}

	return samples, nil
}

// maxSourceSamples returns the per-channel decode cap for a source rate.
func maxSourceSamples(sourceRate int) int {
	return conf.MaxDuration * sourceRate
}

// getAudioDivisor returns the int-to-float conversion divisor for a bit depth.
func getAudioDivisor(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("unsupported audio file bit depth: %d", bitDepth)
	}
}

// mixdown averages interleaved channel samples into a mono signal in place
// of the frame they came from.
func mixdown(frame []float64, numChannels int) float64 {
	sum := 0.0
	for _, s := range frame {
		sum += s
	}
	return sum / float64(numChannels)
}
