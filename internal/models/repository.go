package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository runs every SQL statement the API needs.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithTx runs fn inside one transaction, rolling back when fn fails.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &DatabaseError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &DatabaseError{Op: "commit transaction", Err: err}
	}
	return nil
}

func affectedOne(res sql.Result, entity, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &DatabaseError{Op: "rows affected", Err: err}
	}
	if n == 0 {
		return &NotFoundError{Entity: entity, Key: key}
	}
	return nil
}

// updateColumn writes one allow-listed column. column must come from ColumnValue.
func updateColumn(ctx context.Context, q querier, table, idColumn, column string, value interface{}, id string) (sql.Result, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, table, column, idColumn)
	return q.ExecContext(ctx, query, value, id)
}

// prefixed qualifies every column of a column list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
