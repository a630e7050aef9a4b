package datastore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := &SQLiteStore{
		Settings: &conf.Settings{
			Output: conf.OutputSettings{
				SQLite: conf.SQLiteSettings{
					Enabled: true,
					Path:    filepath.Join(t.TempDir(), "detections.db"),
				},
			},
		},
	}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewDispatch(t *testing.T) {
	t.Parallel()

	assert.Nil(t, New(&conf.Settings{}), "persistence disabled means no store")

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = "detections.db"
	assert.IsType(t, &SQLiteStore{}, New(settings))
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	d := &Detection{
		SourceFile:       "song.mp3",
		ClassifierMode:   "heuristic",
		IsAIGenerated:    true,
		Confidence:       0.74,
		AIProbability:    87,
		HumanProbability: 13,
	}
	require.NoError(t, store.Save(d))
	require.NotZero(t, d.ID)

	got, err := store.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.SourceFile, got.SourceFile)
	assert.Equal(t, d.IsAIGenerated, got.IsAIGenerated)
	assert.InDelta(t, d.Confidence, got.Confidence, 1e-9)
}

func TestGetLastDetectionsOrder(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(&Detection{SourceFile: string(rune('a' + i))}))
	}

	recent, err := store.GetLastDetections(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "e", recent[0].SourceFile)
	assert.Equal(t, "d", recent[1].SourceFile)
	assert.Equal(t, "c", recent[2].SourceFile)

	count, err := store.CountDetections()
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
}
