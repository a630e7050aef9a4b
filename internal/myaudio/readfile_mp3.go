package myaudio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

// go-mp3 always outputs 16-bit stereo PCM regardless of the source stream.
const (
	mp3BitDepth    = 16
	mp3NumChannels = 2
	mp3FrameBytes  = (mp3BitDepth / 8) * mp3NumChannels
)

func readMP3Info(file *os.File) (AudioInfo, error) {
	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return AudioInfo{}, err
	}

	return AudioInfo{
		SampleRate:   decoder.SampleRate(),
		TotalSamples: int(decoder.Length() / mp3FrameBytes),
		NumChannels:  mp3NumChannels,
		BitDepth:     mp3BitDepth,
	}, nil
}

func readMP3(file *os.File, settings *conf.Settings) ([]float64, int, error) {
	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, 0, err
	}

	if settings != nil && settings.Debug {
		fmt.Println("Sample rate:", decoder.SampleRate())
	}

	sourceRate := decoder.SampleRate()
	maxSamples := maxSourceSamples(sourceRate)

	var samples []float64
	buf := make([]byte, 8192*mp3FrameBytes)
	leftover := 0

	for len(samples) < maxSamples {
		n, err := decoder.Read(buf[leftover:])
		if n == 0 && err == io.EOF {
			break
		}
		if err != nil && err != io.EOF {
			return nil, 0, err
		}

		total := leftover + n
		usable := total - total%mp3FrameBytes

		for i := 0; i+mp3FrameBytes <= usable; i += mp3FrameBytes {
			left := float64(int16(binary.LittleEndian.Uint16(buf[i:]))) / 32768.0
			right := float64(int16(binary.LittleEndian.Uint16(buf[i+2:]))) / 32768.0
			samples = append(samples, (left+right)/2)
			if len(samples) >= maxSamples {
				break
			}
		}

		leftover = total - usable
		if leftover > 0 {
			copy(buf, buf[usable:total])
		}

		if err == io.EOF {
			break
		}
	}

	return samples, sourceRate, nil
}
