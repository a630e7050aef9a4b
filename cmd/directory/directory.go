package directory

import (
	"github.com/spf13/cobra"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/analysis"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

// Command creates a new cobra.Command for directory analysis.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory [path]",
		Short: "Analyze all audio files in a directory",
		Long:  "Classify every supported audio file within a directory. Failures are reported per file and do not stop the run.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			_, err := analysis.DirectoryAnalysis(settings)
			return err
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

// setupFlags defines flags specific to the directory command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().BoolVarP(&settings.Input.Recursive, "recursive", "r", false, "Recursively analyze subdirectories")
	cmd.Flags().BoolVar(&settings.Output.SQLite.Enabled, "save", settings.Output.SQLite.Enabled, "Persist detections to the configured database")
}
