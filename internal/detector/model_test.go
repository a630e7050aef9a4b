package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "models", "detector.msgpack")
	original := &LinearModel{
		Weights:   []float64{0.5, -1.25, 3.0},
		Intercept: -0.75,
	}

	require.NoError(t, SaveModel(original, path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, original.Weights, loaded.Weights)
	assert.Equal(t, original.Intercept, loaded.Intercept)
}

func TestLoadModelMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.msgpack"))
	require.Error(t, err)
}

func TestLoadModelCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0o644))

	_, err := LoadModel(path)
	require.Error(t, err)
}

func TestPredictProba(t *testing.T) {
	t.Parallel()

	m := &LinearModel{Weights: []float64{1, 1}, Intercept: 0}

	p, err := m.PredictProba([]float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	p, err = m.PredictProba([]float64{10, 10})
	require.NoError(t, err)
	assert.Greater(t, p, 0.99)

	_, err = m.PredictProba([]float64{1})
	require.Error(t, err, "dimension mismatch must be rejected")
}

func TestFitLogisticSeparableData(t *testing.T) {
	t.Parallel()

	// Linearly separable data on one dimension.
	var x [][]float64
	var y []int
	for i := 0; i < 20; i++ {
		x = append(x, []float64{0.9 + float64(i%5)*0.01})
		y = append(y, 1)
		x = append(x, []float64{0.1 + float64(i%5)*0.01})
		y = append(y, 0)
	}

	m := fitLogistic(x, y, 1)
	for i, fp := range x {
		p, err := m.PredictProba(fp)
		require.NoError(t, err)
		if y[i] == 1 {
			assert.Greater(t, p, 0.5, "sample %d", i)
		} else {
			assert.Less(t, p, 0.5, "sample %d", i)
		}
	}
}

func TestSplitDatasetKeepsBothLabels(t *testing.T) {
	t.Parallel()

	var x [][]float64
	var y []int
	for i := 0; i < 10; i++ {
		x = append(x, []float64{float64(i)})
		y = append(y, i%2)
	}

	trainX, trainY, testX, testY := splitDataset(x, y)
	assert.Len(t, trainX, 8)
	assert.Len(t, testX, 2)
	assert.Equal(t, len(trainX), len(trainY))
	assert.Equal(t, len(testX), len(testY))
	assert.Contains(t, testY, 0)
	assert.Contains(t, testY, 1)
}
