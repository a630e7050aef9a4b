package myaudio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

func readWAVInfo(file *os.File) (AudioInfo, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return AudioInfo{}, errors.New("invalid WAV file format")
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		return AudioInfo{}, fmt.Errorf("unsupported bit depth: %d", decoder.BitDepth)
	}

	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return AudioInfo{}, fmt.Errorf("unsupported number of channels: %d", decoder.NumChans)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return AudioInfo{}, err
	}

	bytesPerSample := int(decoder.BitDepth / 8)
	totalSamples := int(fileInfo.Size()) / bytesPerSample / int(decoder.NumChans)

	return AudioInfo{
		SampleRate:   int(decoder.SampleRate),
		TotalSamples: totalSamples,
		NumChannels:  int(decoder.NumChans),
		BitDepth:     int(decoder.BitDepth),
	}, nil
}

func readWAV(file *os.File, settings *conf.Settings) ([]float64, int, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("input is not a valid WAV audio file")
	}

	if settings != nil && settings.Debug {
		fmt.Println("File is valid wav: ", decoder.IsValidFile())
		fmt.Println("Sample rate:", decoder.SampleRate)
		fmt.Println("Bits per sample:", decoder.BitDepth)
		fmt.Println("Channels:", decoder.NumChans)
	}

	divisor, err := getAudioDivisor(int(decoder.BitDepth))
	if err != nil {
		return nil, 0, err
	}

	numChannels := int(decoder.NumChans)
	if numChannels < 1 {
		return nil, 0, fmt.Errorf("invalid number of channels: %d", numChannels)
	}

	sourceRate := int(decoder.SampleRate)
	maxSamples := maxSourceSamples(sourceRate)

	var samples []float64
	frame := make([]float64, numChannels)

	buf := &audio.IntBuffer{
		Data:   make([]int, 8192*numChannels),
		Format: &audio.Format{SampleRate: sourceRate, NumChannels: numChannels},
	}

	for len(samples) < maxSamples {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			break
		}

		for i := 0; i+numChannels <= n; i += numChannels {
			for c := 0; c < numChannels; c++ {
				frame[c] = float64(buf.Data[i+c]) / divisor
			}
			samples = append(samples, mixdown(frame, numChannels))
			if len(samples) >= maxSamples {
				break
			}
		}
	}

	return samples, sourceRate, nil
}
