package sqlite

import (
	"context"
	"database/sql"
	"time"

	"task-manager/internal/errors"
	"task-manager/internal/repository"
	"task-manager/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Options tunes a Store.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// DefaultOptions returns the timeouts used when none are configured.
func DefaultOptions() Options {
	return Options{
		QueryTimeout: 10 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Store implements repository.Store on a single SQLite table.
type Store struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

var (
	_ repository.Store     = (*Store)(nil)
	_ repository.KeyLister = (*Store)(nil)
)

// New creates a new SQLite store with default options
func New(dbPath string) (*Store, error) {
	return NewWithOptions(dbPath, DefaultOptions())
}

// NewWithOptions opens dbPath and applies pending migrations.
func NewWithOptions(dbPath string, opts Options) (*Store, error) {
	defaults := DefaultOptions()
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaults.QueryTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaults.WriteTimeout
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	// A single connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), opts.WriteTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewStorageError("configure database", err)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &Store{db: db, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()
	return QueryValue(ctx, s.db, key)
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()
	return UpsertValue(ctx, s.db, key, value, s.stamp())
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()
	_, err := DeleteValue(ctx, s.db, key)
	return err
}

// Update runs fn inside a database transaction.
func (s *Store) Update(ctx context.Context, fn func(tx repository.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	if err := fn(&storeTx{tx: sqlTx, stamp: s.stamp}); err != nil {
		sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

// Keys lists the stored keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_store ORDER BY key`)
	if err != nil {
		return nil, HandleDatabaseError("list keys", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, HandleDatabaseError("scan key", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, HandleDatabaseError("list keys", err)
	}
	return keys, nil
}

func (s *Store) stamp() string {
	return repository.FormatTime(s.now())
}

type storeTx struct {
	tx    *sql.Tx
	stamp func() string
}

func (t *storeTx) Get(ctx context.Context, key string) (string, bool, error) {
	return QueryValue(ctx, t.tx, key)
}

func (t *storeTx) Set(ctx context.Context, key, value string) error {
	return UpsertValue(ctx, t.tx, key, value, t.stamp())
}

func (t *storeTx) Remove(ctx context.Context, key string) error {
	_, err := DeleteValue(ctx, t.tx, key)
	return err
}
