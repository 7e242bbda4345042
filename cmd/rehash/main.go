// Command rehash bcrypt-hashes stored passwords that predate hashing.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itsDrac/authgate/internal/db"
	"github.com/itsDrac/authgate/internal/repository"
	"github.com/itsDrac/authgate/internal/service"
	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/jwt"
	"github.com/itsDrac/authgate/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	batch := flag.Int("batch", service.DefaultRehashBatchSize, "users per batch")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	logr := logger.NewLogger(cfg.Environment)
	defer func() { _ = logr.Sync() }()

	if cfg.DBDsn == "" {
		logr.Error("[REHASH] DB_DSN is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewDB(ctx, cfg.DBDsn, logr)
	if err != nil {
		logr.Errorw("[DB] connection failed -> ", "error", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	jm, err := jwt.NewJwtManager(cfg.JWT)
	if err != nil {
		logr.Errorw("[REHASH] jwt setup failed", "error", err)
		os.Exit(1)
	}
	users, err := service.NewUserService(repository.NewUserRepo(conn), service.NewTokenIssuer(jm, false), logr)
	if err != nil {
		logr.Errorw("[REHASH] service setup failed", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	n, err := users.RehashLegacyPasswords(ctx, *batch)
	if err != nil {
		logr.Errorw("[REHASH] stopped with error", "updated", n, "error", err)
		os.Exit(1)
	}
	logr.Infow("[REHASH] done", "updated", n, "elapsed", time.Since(start))
}
