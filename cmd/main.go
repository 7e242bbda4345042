package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/itsDrac/authgate/internal/dependency"
	"github.com/itsDrac/authgate/internal/server"
	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	logr := logger.NewLogger(cfg.Environment)
	defer func() { _ = logr.Sync() }()

	logr.Info("Initializing authgate service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	deps, err := dependency.NewDependencies(ctx, cfg, logr)
	cancel()
	if err != nil {
		logr.Errorw("[SERVER] failed to initialize dependencies", "error", err)
		os.Exit(1)
	}

	srv := server.New(deps)
	if err := srv.Run(); err != nil {
		logr.Errorw("server failed to run", "error", err)
		os.Exit(1)
	}
}
