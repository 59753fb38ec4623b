// Command epitopes-api builds a clean T-cell epitope training dataset from
// the public IEDB export and can serve it over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/epibase/epitopes-api/config"
	"github.com/epibase/epitopes-api/data"
	"github.com/epibase/epitopes-api/epitopesparser"
	"github.com/epibase/epitopes-api/handlers"
	"github.com/epibase/epitopes-api/health"
	"github.com/epibase/epitopes-api/logging"
	"github.com/epibase/epitopes-api/scheduler"
	"github.com/epibase/epitopes-api/server"
	"github.com/epibase/epitopes-api/validation"
)

var (
	// Dataset build flags
	destination string
	datasetURL  string
)

var rootCmd = &cobra.Command{
	Use:   "epitopes-api",
	Short: "IEDB epitope dataset builder and API",
	Long: `epitopes-api downloads the public IEDB T-cell epitope export,
filters and deduplicates it into a clean training dataset of peptides
labeled by immunogenicity, and writes it as ` + epitopesparser.DatasetFileName + `.

Examples:
  # Build the dataset into data/
  epitopes-api

  # Build the dataset into another directory
  epitopes-api --destination /srv/datasets

  # Serve the dataset over HTTP with daily refreshes
  epitopes-api serve`,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return buildDataset()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the epitope dataset over HTTP",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&destination, "destination", "d", "data/", "directory for the exported dataset")
	rootCmd.PersistentFlags().StringVar(&datasetURL, "url", "", "override the IEDB archive URL")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildDataset runs the one-shot pipeline: fetch, filter, write the CSV.
func buildDataset() error {
	url := datasetURL
	if url == "" {
		url = epitopesparser.DefaultDatasetURL
	}

	epitopes, err := epitopesparser.BuildDataset(url, destination)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d epitopes to %s\n", len(epitopes), filepath.Join(destination, epitopesparser.DatasetFileName))
	return nil
}

// runServer wires the container, parser, scheduler and HTTP server together
// and blocks until a shutdown signal arrives.
func runServer() error {
	// Read the env variables; a missing .env file is fine
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.InitLogger("logs")

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	parser := epitopesparser.NewEpitopeParser()
	if cfg.DatasetURL != "" {
		parser.DatasetURL = cfg.DatasetURL
	}

	validator := validation.NewDataValidator()
	healthChecker := health.NewHealthChecker(dataContainer)
	handler := handlers.NewHTTPHandler(dataContainer, healthChecker, validator)

	sched := scheduler.NewScheduler(dataContainer, parser, validator)
	go func() {
		if err := sched.Start(); err != nil {
			logging.Error("Failed to start scheduler", "error", err)
			os.Exit(1)
		}
	}()
	defer sched.Stop()

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
