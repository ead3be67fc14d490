package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/marketsource"
	"github.com/polyscout/insiderscan/internal/polymarket/dataapi"
	"github.com/polyscout/insiderscan/internal/scanner"
	"github.com/polyscout/insiderscan/internal/snapshot"
)

func main() {
	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	// Optional .env for local runs
	_ = godotenv.Load()

	log.Info("Starting insiderscan scan run...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	log.WithFields(logrus.Fields{
		"environment":       cfg.Environment,
		"min_position_usd":  cfg.MinPositionUSD,
		"min_score":         cfg.MinScore,
		"top_holders_limit": cfg.TopHoldersLimit,
		"snapshot_path":     cfg.SnapshotPath,
	}).Info("Configuration loaded")

	// Initialize clients and pipeline
	dataClient := dataapi.NewClient(cfg)
	marketsClient := marketsource.NewClient(cfg.MarketsAPIURL)
	analyzer := scanner.NewAnalyzer(
		scanner.NewHolderFetcher(dataClient, cfg),
		scanner.NewProfiler(dataClient, cfg),
		cfg,
		log,
	)
	store := snapshot.NewStore(cfg.SnapshotPath)
	scan := scanner.NewScanner(marketsClient, analyzer, store, cfg, log)

	// Cancel the run on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}()

	if _, err := scan.Run(ctx); err != nil {
		log.WithError(err).Fatal("Scan run failed")
	}
}
