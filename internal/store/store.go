package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot has been imported.
	ErrSnapshotNotFound = errors.New("store: no snapshot imported")
	// ErrUnknownCrate is returned when a crate name is not in the store.
	ErrUnknownCrate = errors.New("store: unknown crate")
)

// Store is the SQLite data access layer for IR snapshots: crates, the
// definition namespace tree, source files and expansion records.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for import progress.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS crates (
  crate_num       INTEGER PRIMARY KEY,
  name            TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS defs (
  crate_num       INTEGER NOT NULL REFERENCES crates(crate_num),
  def_index       INTEGER NOT NULL,
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  parent_index    INTEGER,
  PRIMARY KEY (crate_num, def_index)
);

CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  start_pos       INTEGER NOT NULL,
  content         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expansions (
  ctxt            INTEGER PRIMARY KEY,
  callee_name     TEXT NOT NULL,
  format          TEXT NOT NULL,
  call_lo         INTEGER NOT NULL,
  call_hi         INTEGER NOT NULL,
  call_ctxt       INTEGER NOT NULL,
  callee_lo       INTEGER,
  callee_hi       INTEGER,
  callee_ctxt     INTEGER
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_defs_parent ON defs(crate_num, parent_index);
CREATE INDEX IF NOT EXISTS idx_defs_name ON defs(name);
CREATE INDEX IF NOT EXISTS idx_files_start ON files(start_pos);
`

// Clear transactionally removes every snapshot row. Deletes in
// reverse-dependency order to respect FK constraints.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := clearTx(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearTx(tx *sql.Tx) error {
	for _, q := range []string{
		"DELETE FROM metadata",
		"DELETE FROM expansions",
		"DELETE FROM files",
		"DELETE FROM defs",
		"DELETE FROM crates",
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}
	return nil
}
