package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so every repository call
// joins whatever transaction the caller opened.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	ErrConcurrentModification = errors.New("account was modified concurrently")
	ErrDuplicateAccountNumber = errors.New("account number already assigned")
	ErrDuplicateUser          = errors.New("user with this email or citizen id already exists")
	ErrSerializationConflict  = errors.New("transaction aborted by a serialization conflict")
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// TranslateError maps PostgreSQL isolation aborts to ErrSerializationConflict
// and leaves every other error untouched.
func TranslateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqSerializationFailure, pqDeadlockDetected:
			return ErrSerializationConflict
		}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
