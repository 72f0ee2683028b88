// Package sqlite provides a SQLite implementation of database.DB backed by
// database/sql and mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/database/sqldb"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/mattn/go-sqlite3"
)

// New opens the SQLite database at cfg.DSN (a file path or "file:" URI) and
// returns it as a database.DB.
func New(ctx context.Context, cfg *database.Config) (*sqldb.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to open sqlite database", err)
	}

	// An in-memory database lives as long as its single connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	d := sqldb.New(db, mapError)
	if err := d.Ping(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// mapError translates go-sqlite3 errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return errs.Wrap(classifySQLiteCode(liteErr.Code), fmt.Sprintf("%s: %s", msg, liteErr.Error()), err)
	}

	return sqldb.MapError(err, msg)
}

func classifySQLiteCode(code sqlite3.ErrNo) errs.ErrKind {
	switch code {
	case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
		return errs.ErrKindPermissionDenied
	case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
		return errs.ErrKindConnectionFailed
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrInterrupt:
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindQueryFailed
	}
}
