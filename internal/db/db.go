package db

import (
	"context"
	"time"

	"github.com/itsDrac/authgate/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	log    *logger.Logger
	Pool   *pgxpool.Pool
	closed bool
}

func NewDB(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// connection pooling
	cfg.MaxConns = 25
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Test connection
	if err := pool.Ping(pingCx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("[DB] connection established...")

	return &DB{
		log:  log,
		Pool: pool,
	}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return d.Pool.Ping(ctx)
}

func (d *DB) Close(ctx context.Context) error {
	if d.closed {
		return nil
	}
	d.closed = true

	done := make(chan struct{})

	go func() {
		d.Pool.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
