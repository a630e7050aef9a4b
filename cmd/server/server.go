package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/datastore"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/detector"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/httpcontroller"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/logging"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/observability"
)

// Command creates the server command running the HTTP API.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the analysis HTTP API server",
		Long:  "Serve the classification pipeline over HTTP with optional detection persistence and Prometheus metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", settings.WebServer.Host, "Address to bind to")
	cmd.Flags().StringVarP(&settings.WebServer.Port, "port", "p", settings.WebServer.Port, "Port to listen on")
}

func runServer(settings *conf.Settings) error {
	logger := logging.ForService("server")

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	var store datastore.Interface
	if store = datastore.New(settings); store != nil {
		if err := store.Open(); err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer store.Close()
	}

	d := detector.New(settings)
	metrics.Detector.SetModelLoaded(d.IsTrained())

	controller := httpcontroller.New(settings, store, d, metrics)

	if logCfg := settings.WebServer.Log; logCfg.Enabled {
		fileLogger, closeLogger, err := logging.NewFileLogger(logCfg.Path, "api", slog.LevelInfo, logCfg.MaxSize)
		if err != nil {
			return fmt.Errorf("opening web server log file: %w", err)
		}
		defer closeLogger()
		controller.SetLogger(fileLogger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- controller.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := controller.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
