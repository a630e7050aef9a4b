package analysis

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

// writeTestWAV writes a 16-bit mono PCM WAV with a quiet sine tone.
func writeTestWAV(t *testing.T, path string, seconds float64) {
	t.Helper()

	sampleRate := conf.SampleRate
	n := int(seconds * float64(sampleRate))
	dataSize := n * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for i := 0; i < n; i++ {
		sample := int16(3000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		binary.Write(&buf, binary.LittleEndian, sample)
	}

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func batchSettings(t *testing.T, dir string) *conf.Settings {
	t.Helper()
	s := &conf.Settings{}
	s.Input.Path = dir
	return s
}

func TestDirectoryAnalysisIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, filepath.Join(dir, "a.wav"), 1.5)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.wav"), []byte("definitely not audio"), 0o644))
	writeTestWAV(t, filepath.Join(dir, "c.wav"), 1.5)

	batch, err := DirectoryAnalysis(batchSettings(t, dir))
	require.NoError(t, err)
	require.Equal(t, 3, batch.Total)
	require.Len(t, batch.Results, 3)

	assert.Equal(t, "a.wav", batch.Results[0].Filename)
	assert.Equal(t, "success", batch.Results[0].Status)
	require.NotNil(t, batch.Results[0].Result)

	assert.Equal(t, "b.wav", batch.Results[1].Filename)
	assert.Equal(t, "error", batch.Results[1].Status)
	assert.NotEmpty(t, batch.Results[1].Error)
	assert.Nil(t, batch.Results[1].Result)

	assert.Equal(t, "c.wav", batch.Results[2].Filename)
	assert.Equal(t, "success", batch.Results[2].Status)
}

func TestDirectoryAnalysisEmptyDirectory(t *testing.T) {
	_, err := DirectoryAnalysis(batchSettings(t, t.TempDir()))
	require.Error(t, err)
}

func TestCollectAudioFilesNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, filepath.Join(dir, "top.wav"), 0.5)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	writeTestWAV(t, filepath.Join(dir, "sub", "nested.wav"), 0.5)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := collectAudioFiles(dir, false)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "top.wav", filepath.Base(paths[0]))

	paths, err = collectAudioFiles(dir, true)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestValidateAudioFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "ok.wav")
	writeTestWAV(t, valid, 0.25)
	require.NoError(t, validateAudioFile(valid))

	empty := filepath.Join(dir, "empty.wav")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	require.Error(t, validateAudioFile(empty))

	require.Error(t, validateAudioFile(dir), "directories are rejected")
	require.Error(t, validateAudioFile(filepath.Join(dir, "missing.wav")))
}
