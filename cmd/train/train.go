package train

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/detector"
)

// Command creates the train command fitting a model from labelled audio.
func Command(settings *conf.Settings) *cobra.Command {
	var aiDir, humanDir string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a classification model from labelled audio",
		Long:  "Fit a logistic regression on fakeprints extracted from two directories of labelled audio and save it for the --use-trained-model mode.",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := detector.TrainModel(settings, aiDir, humanDir)
			if err != nil {
				return err
			}
			fmt.Printf("Trained on %d AI and %d human samples (%d train / %d test)\n",
				report.AISamples, report.HumanSamples, report.TrainSize, report.TestSize)
			fmt.Printf("Test accuracy: %.1f%%\n", report.TestAccuracy*100)
			fmt.Printf("Model saved to %s\n", report.ModelPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&aiDir, "ai-dir", "", "Directory of AI-generated training audio")
	cmd.Flags().StringVar(&humanDir, "human-dir", "", "Directory of human-made training audio")
	_ = cmd.MarkFlagRequired("ai-dir")
	_ = cmd.MarkFlagRequired("human-dir")

	return cmd
}
