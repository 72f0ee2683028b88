// Package sqldb adapts a database/sql pool to database.DB.
//
// The MySQL and SQLite drivers are built on it; each supplies its own error
// mapper so native error codes still land on the right errs.ErrKind.
package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
)

// ErrorMapper translates a driver-native error into *errs.Error.
type ErrorMapper func(err error, msg string) *errs.Error

// DB wraps *sql.DB to satisfy database.DB.
// It is safe for concurrent use by multiple goroutines.
type DB struct {
	db     *sql.DB
	mapErr ErrorMapper
}

// New wraps db. A nil mapper falls back to MapError.
func New(db *sql.DB, mapErr ErrorMapper) *DB {
	if mapErr == nil {
		mapErr = MapError
	}
	return &DB{db: db, mapErr: mapErr}
}

// Ping verifies the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return d.mapErr(err, "ping failed")
	}
	return nil
}

// Close releases the pool.
func (d *DB) Close() {
	_ = d.db.Close()
}

// Query executes a SQL statement that returns multiple rows.
func (d *DB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, d.mapErr(err, "query failed")
	}
	return &sqlRows{rows: rows, mapErr: d.mapErr}, nil
}

// QueryRow executes a SQL statement expected to return at most one row.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return &sqlRow{row: d.db.QueryRowContext(ctx, query, args...), mapErr: d.mapErr}
}

// Unwrap exposes the underlying pool.
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

// MapError is the generic mapping used when a driver has no typed errors to
// inspect: cancellation, missing rows and everything else.
func MapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}
	if errors.Is(err, sql.ErrConnDone) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

type sqlRows struct {
	rows   *sql.Rows
	mapErr ErrorMapper
}

func (r *sqlRows) Next() bool { return r.rows.Next() }
func (r *sqlRows) Close()     { _ = r.rows.Close() }

func (r *sqlRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return r.mapErr(err, "scan failed")
	}
	return nil
}

func (r *sqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return r.mapErr(err, "row iteration failed")
	}
	return nil
}

type sqlRow struct {
	row    *sql.Row
	mapErr ErrorMapper
}

func (r *sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return r.mapErr(err, "scan failed")
	}
	return nil
}
