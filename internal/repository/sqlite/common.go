package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"task-manager/internal/errors"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return errors.NewStorageError(operation, err)
}

// QueryValue reads the value stored under key. found is false when no row matches.
func QueryValue(ctx context.Context, q queryer, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, HandleDatabaseError("get "+key, err)
	}
	return value, true, nil
}

// UpsertValue writes value under key, replacing any previous value.
func UpsertValue(ctx context.Context, q queryer, key, value, updatedAt string) error {
	query := `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := q.ExecContext(ctx, query, key, value, updatedAt); err != nil {
		return HandleDatabaseError("set "+key, err)
	}
	return nil
}

// DeleteValue removes key. It reports whether a row was deleted.
func DeleteValue(ctx context.Context, q queryer, key string) (bool, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	if err != nil {
		return false, HandleDatabaseError("remove "+key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, HandleDatabaseError("get rows affected", err)
	}
	return rows > 0, nil
}
