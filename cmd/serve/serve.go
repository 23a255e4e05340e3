// Package serve implements the serve command which runs the HTTP server.
package serve

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/planboard/planboard/internal/ai"
	"github.com/planboard/planboard/internal/api"
	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/datastore"
	"github.com/planboard/planboard/internal/logging"
	"github.com/planboard/planboard/internal/observability"
	"github.com/planboard/planboard/internal/rating"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the PlanBoard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServer(settings)
		},
	}
}

// RunServer opens the datastore, wires the AI service when enabled and runs
// the HTTP server until a termination signal arrives.
func RunServer(settings *conf.Settings) error {
	if err := conf.ValidateSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ds := datastore.New(settings)
	if ds == nil {
		return fmt.Errorf("no database backend configured")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logging.Error("Failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	clock := rating.SystemClock{}

	var aiService *ai.Service
	if settings.AI.Enabled {
		provider := ai.NewGeminiProvider(&settings.AI)
		var cache *ai.Cache
		if settings.AI.Cache.Enabled {
			cache = ai.NewCache(settings.AI.Cache.TTL)
		}
		tracker := ai.NewTracker(ds, clock, &settings.AI)
		aiService = ai.NewService(provider, cache, tracker, metrics.AI)
		logging.Info("AI enrichment enabled", "provider", settings.AI.Provider, "model", settings.AI.Model)
	} else {
		logging.Info("AI enrichment disabled")
	}

	server := api.NewServer(settings, ds, clock, aiService, metrics, log.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logging.Info("Shutting down", "signal", sig.String())
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}
