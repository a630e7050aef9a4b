package analysis

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/datastore"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/detector"
)

// FileResult is the outcome of one item of a directory run. Failed items
// carry Status "error" and an error description; the rest of the batch is
// unaffected.
type FileResult struct {
	Filename string                         `json:"filename"`
	Status   string                         `json:"status"`
	Error    string                         `json:"error,omitempty"`
	Result   *detector.ClassificationResult `json:"result,omitempty"`
}

// BatchResult aggregates a directory run in input order.
type BatchResult struct {
	Total   int          `json:"total"`
	Results []FileResult `json:"results"`
}

// DirectoryAnalysis classifies every audio file in the configured
// directory, strictly sequentially and in sorted path order.
func DirectoryAnalysis(settings *conf.Settings) (*BatchResult, error) {
	paths, err := collectAudioFiles(settings.Input.Path, settings.Input.Recursive)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("\033[31m❌ No audio files found in %s\033[0m", settings.Input.Path)
	}

	d := detector.New(settings)

	var store datastore.Interface
	if store = datastore.New(settings); store != nil {
		if err := store.Open(); err != nil {
			return nil, fmt.Errorf("opening datastore: %w", err)
		}
		defer store.Close()
	}

	batch := &BatchResult{Total: len(paths)}
	aiCount := 0
	start := time.Now()

	for _, path := range paths {
		item := FileResult{Filename: filepath.Base(path), Status: "success"}

		fileStart := time.Now()
		result, err := d.Predict(path)
		if err != nil {
			item.Status = "error"
			item.Error = err.Error()
			fmt.Printf("\033[31m❌ %s: %v\033[0m\n", item.Filename, err)
			batch.Results = append(batch.Results, item)
			continue
		}

		item.Result = result
		if result.IsAIGenerated {
			aiCount++
		}
		printResult(path, result, d.IsTrained(), time.Since(fileStart))

		if store != nil {
			if err := store.Save(detectionRecord(path, result, d.IsTrained())); err != nil {
				fmt.Printf("\033[33m⚠️ could not save detection for %s: %v\033[0m\n", item.Filename, err)
			}
		}
		batch.Results = append(batch.Results, item)
	}

	fmt.Printf("\nAnalyzed %d files in %s: %d flagged as AI-generated\n",
		batch.Total, time.Since(start).Round(time.Second), aiCount)
	return batch, nil
}

// collectAudioFiles returns supported audio files under dir in sorted
// order. Recursion is optional.
func collectAudioFiles(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("\033[31m❌ Error accessing directory %s: %w\033[0m", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("\033[31m❌ The path %s is not a directory\033[0m", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".wav", ".flac", ".mp3":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning directory %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
