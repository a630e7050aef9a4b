package myaudio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/flac"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

func readFLACInfo(file *os.File) (AudioInfo, error) {
	decoder, err := flac.NewDecoder(file)
	if err != nil {
		return AudioInfo{}, err
	}

	return AudioInfo{
		SampleRate:   decoder.SampleRate,
		TotalSamples: int(decoder.TotalSamples),
		NumChannels:  decoder.NChannels,
		BitDepth:     decoder.BitsPerSample,
	}, nil
}

func readFLAC(file *os.File, settings *conf.Settings) ([]float64, int, error) {
	decoder, err := flac.NewDecoder(file)
	if err != nil {
		return nil, 0, err
	}

	if settings != nil && settings.Debug {
		fmt.Println("Sample rate:", decoder.SampleRate)
		fmt.Println("Bits per sample:", decoder.BitsPerSample)
		fmt.Println("Channels:", decoder.NChannels)
	}

	divisor, err := getAudioDivisor(decoder.BitsPerSample)
	if err != nil {
		return nil, 0, err
	}

	numChannels := decoder.NChannels
	if numChannels < 1 {
		return nil, 0, fmt.Errorf("invalid number of channels: %d", numChannels)
	}

	sourceRate := decoder.SampleRate
	maxSamples := maxSourceSamples(sourceRate)
	bytesPerSample := decoder.BitsPerSample / 8
	frameStride := bytesPerSample * numChannels

	var samples []float64
	channelFrame := make([]float64, numChannels)

	for len(samples) < maxSamples {
		frame, err := decoder.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, err
		}

		for i := 0; i+frameStride <= len(frame); i += frameStride {
			for c := 0; c < numChannels; c++ {
				off := i + c*bytesPerSample
				var sample int32
				switch decoder.BitsPerSample {
				case 16:
					sample = int32(int16(binary.LittleEndian.Uint16(frame[off:])))
				case 24:
					sample = int32(frame[off]) | int32(frame[off+1])<<8 | int32(frame[off+2])<<16
					// Sign extend 24-bit values
					if sample&0x800000 != 0 {
						sample |= ^int32(0xFFFFFF)
					}
				case 32:
					sample = int32(binary.LittleEndian.Uint32(frame[off:]))
				}
				channelFrame[c] = float64(sample) / divisor
			}
			samples = append(samples, mixdown(channelFrame, numChannels))
			if len(samples) >= maxSamples {
				break
			}
		}
	}

	return samples, sourceRate, nil
}
