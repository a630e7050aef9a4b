package file

import (
	"github.com/spf13/cobra"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/analysis"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

// Command creates a new file command for analyzing a single audio file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file [input file]",
		Short: "Analyze an audio file",
		Long:  "Classify a single audio file as AI-generated or human-made.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			return analysis.FileAnalysis(settings)
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

// setupFlags configures flags specific to the file command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().BoolVar(&settings.Output.SQLite.Enabled, "save", settings.Output.SQLite.Enabled, "Persist the detection to the configured database")
}
