package models

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError reports a missing or malformed input value.
type ValidationError struct {
	Field   string
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("campo obrigatório: %s", e.Field)
}

// NotFoundError reports an absent entity.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s não encontrado: %s", e.Entity, e.Key)
}

// DuplicateError is a unique-constraint violation.
type DuplicateError struct {
	Entity     string
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s já existe", e.Entity)
}

// CapacityExceededError is returned when a date already holds the maximum number of shifts.
type CapacityExceededError struct {
	Date  string
	Limit int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("limite de %d plantões atingido para %s", e.Limit, e.Date)
}

// InvalidFieldError is a field name outside an update allow-list.
type InvalidFieldError struct {
	Entity string
	Field  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("campo inválido para %s: %s", e.Entity, e.Field)
}

// DatabaseError wraps any other driver failure.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation checks for SQLSTATE 23505 and returns the constraint name.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// mapError converts driver errors for entity into the taxonomy above.
// Errors that already belong to the taxonomy pass through unchanged.
func mapError(op, entity, key string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, Key: key}
	}
	if constraint, ok := IsUniqueViolation(err); ok {
		return &DuplicateError{Entity: entity, Constraint: constraint}
	}
	return &DatabaseError{Op: op, Err: err}
}

func isDomainError(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
		de *DuplicateError
		ce *CapacityExceededError
		fe *InvalidFieldError
		db *DatabaseError
	)
	return errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &de) ||
		errors.As(err, &ce) || errors.As(err, &fe) || errors.As(err, &db)
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field}
	}
	return nil
}
