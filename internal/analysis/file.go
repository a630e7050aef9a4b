package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/datastore"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/detector"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/myaudio"
)

// FileAnalysis classifies a single audio file and prints the verdict.
func FileAnalysis(settings *conf.Settings) error {
	if err := validateAudioFile(settings.Input.Path); err != nil {
		return err
	}

	d := detector.New(settings)

	start := time.Now()
	result, err := d.Predict(settings.Input.Path)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", filepath.Base(settings.Input.Path), err)
	}
	elapsed := time.Since(start)

	printResult(settings.Input.Path, result, d.IsTrained(), elapsed)

	if store := datastore.New(settings); store != nil {
		if err := store.Open(); err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer store.Close()
		if err := store.Save(detectionRecord(settings.Input.Path, result, d.IsTrained())); err != nil {
			return fmt.Errorf("saving detection: %w", err)
		}
	}
	return nil
}

// validateAudioFile checks if the provided file path is a valid audio file.
func validateAudioFile(filePath string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("\033[31m❌ Error accessing file %s: %w\033[0m", filepath.Base(filePath), err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("\033[31m❌ The path %s is a directory, not a file\033[0m", filepath.Base(filePath))
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("\033[31m❌ File %s is empty (0 bytes)\033[0m", filepath.Base(filePath))
	}

	audioInfo, err := myaudio.GetAudioInfo(filePath)
	if err != nil {
		return fmt.Errorf("\033[31m❌ Invalid audio file %s: %w\033[0m", filepath.Base(filePath), err)
	}

	if audioInfo.TotalSamples == 0 {
		return fmt.Errorf("\033[31m❌ File %s contains no samples or is still being written\033[0m", filepath.Base(filePath))
	}

	return nil
}

func detectionRecord(path string, result *detector.ClassificationResult, trained bool) *datastore.Detection {
	mode := "heuristic"
	if trained {
		mode = "trained"
	}
	return &datastore.Detection{
		SourceFile:       filepath.Base(path),
		ClassifierMode:   mode,
		IsAIGenerated:    result.IsAIGenerated,
		Confidence:       result.Confidence,
		AIProbability:    result.AIProbability,
		HumanProbability: result.HumanProbability,
	}
}

// printResult writes a human readable verdict to stdout. Reporting stays
// out of the scorer so the scoring path remains a pure function.
func printResult(path string, result *detector.ClassificationResult, trained bool, elapsed time.Duration) {
	verdict := "\033[32m🎤 human-made\033[0m"
	if result.IsAIGenerated {
		verdict = "\033[31m🤖 AI-generated\033[0m"
	}
	mode := "heuristic"
	if trained {
		mode = "trained model"
	}

	fmt.Printf("%s: %s (confidence %.0f%%, AI probability %.1f%%, %s, %s)\n",
		filepath.Base(path), verdict, result.Confidence*100, result.AIProbability, mode, elapsed.Round(time.Millisecond))

	if result.Details == nil {
		return
	}
	d := result.Details
	fmt.Printf("  peaks high/medium/low: %d/%d/%d, regularity %.2f, periodicity %.2f\n",
		d.PeakCountHigh, d.PeakCountMedium, d.PeakCountLow, d.PeakRegularityScore, d.PeriodicityScore)
	fmt.Printf("  fakeprint mean %.3f max %.3f p90 %.3f kurtosis %.1f\n",
		d.FakeprintMean, d.FakeprintMax, d.FakeprintP90, d.FakeprintKurtosis)
	fmt.Printf("  score %.1f (peaks %.1f, intensity %.1f, structure %.1f, adjustments %.1f)\n",
		d.Score,
		d.PeakCountPoints+d.HighPeakPoints,
		d.MeanIntensityPoints+d.MaxIntensityPoints+d.P90Points,
		d.PeriodicityPoints+d.RegularityPoints,
		d.KurtosisBonus+d.HFAdjustment+d.CombinedBonus+d.AbundanceBonus)
}
