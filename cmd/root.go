package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coffey-dev/AI-Song-Detector-Backend/cmd/directory"
	"github.com/coffey-dev/AI-Song-Detector-Backend/cmd/file"
	"github.com/coffey-dev/AI-Song-Detector-Backend/cmd/server"
	"github.com/coffey-dev/AI-Song-Detector-Backend/cmd/train"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "songdetector",
		Short: "AI Song Detector CLI",
		Long:  "Detect AI-generated music from spectral synthesis artifacts in the 5-16 kHz band.",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		file.Command(settings),
		directory.Command(settings),
		server.Command(settings),
		train.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Detector.ModelPath, "model", viper.GetString("detector.modelpath"), "Path to trained model weights")
	rootCmd.PersistentFlags().BoolVar(&settings.Detector.UseTrainedModel, "use-trained-model", viper.GetBool("detector.usetrainedmodel"), "Classify with the trained model when available")
}
