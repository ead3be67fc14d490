package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/polymarket/dataapi"
	"github.com/polyscout/insiderscan/internal/scanner"
	"github.com/polyscout/insiderscan/internal/server"
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

	log.Info("Starting insiderscan API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	log.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"port":          cfg.ServerPort,
		"snapshot_path": cfg.SnapshotPath,
		"cache_ttl":     cfg.AnalysisCacheTTL.String(),
	}).Info("Configuration loaded")

	// Initialize the on-demand analysis pipeline
	dataClient := dataapi.NewClient(cfg)
	analyzer := scanner.NewAnalyzer(
		scanner.NewHolderFetcher(dataClient, cfg),
		scanner.NewProfiler(dataClient, cfg),
		cfg,
		log,
	)
	store := snapshot.NewStore(cfg.SnapshotPath)

	srv := server.New(cfg, analyzer, store, log)

	go func() {
		if err := srv.Start(); err != nil {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.WithField("signal", sig).Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Shutdown error")
	}
	log.Info("Graceful shutdown complete")
}
