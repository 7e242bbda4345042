package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNilPool = errors.New("[DB] underlying pgxpool.Pool is nil")

// Row defers the timeout cancel until Scan, which is when pgx reads it.
type Row struct {
	row    pgx.Row
	cancel context.CancelFunc
}

func (r *Row) Scan(dest ...any) error {
	defer r.cancel()
	return r.row.Scan(dest...)
}

type errRow struct{ err error }

func (e errRow) Scan(...any) error { return e.err }

func (d *DB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if d.Pool == nil {
		return pgconn.CommandTag{}, ErrNilPool
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return d.Pool.Exec(ctx, query, args...)
}

// Query returns rows bound to a timeout context; callers must Close the rows
// and then call the returned cancel.
func (d *DB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, context.CancelFunc, error) {
	if d.Pool == nil {
		d.log.Warn("pgxpool is nil")
		return nil, func() {}, ErrNilPool
	}
	ctx, cancel := withTimeout(ctx)
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, func() {}, err
	}
	return rows, cancel, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if d.Pool == nil {
		d.log.Warn("pgxpool is nil")
		return errRow{err: ErrNilPool}
	}
	ctx, cancel := withTimeout(ctx)
	return &Row{row: d.Pool.QueryRow(ctx, query, args...), cancel: cancel}
}
