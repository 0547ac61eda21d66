// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/danielhkuo/vote-ledger/ledger"
)

// Database types
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements ledger.Store on postgres or sqlite
type SQLStore struct {
	db *sql.DB
	stores
}

func New(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{
		db:     db,
		stores: stores{q: db, dialect: dialect},
	}
}

// InTx runs fn against stores bound to one transaction
func (s *SQLStore) InTx(ctx context.Context, fn func(tx ledger.Stores) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := fn(stores{q: tx, dialect: s.dialect}); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "failed to commit transaction")
}

// View runs fn in a read-only transaction. Postgres needs repeatable read
// for every statement to share one snapshot; sqlite transactions already do.
func (s *SQLStore) View(ctx context.Context, fn func(tx ledger.Stores) error) error {
	var opts *sql.TxOptions
	if s.dialect == DialectPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "failed to begin read transaction")
	}
	defer tx.Rollback()

	return fn(stores{q: tx, dialect: s.dialect})
}

type stores struct {
	q       queryer
	dialect string
}

func (s stores) Registry() ledger.Registry { return &registry{q: s.q} }
func (s stores) Tally() ledger.Tally       { return &tally{q: s.q} }
func (s stores) Election() ledger.Election { return &election{q: s.q, dialect: s.dialect} }

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read affected rows")
	}
	return n, nil
}
