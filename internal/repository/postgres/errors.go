package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// sqlState returns the SQLSTATE carried by err, or "" for non-server errors
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return sqlState(err) == codeUniqueViolation
}

// IsPgForeignKeyError reports a missing parent row
func IsPgForeignKeyError(err error) bool {
	return sqlState(err) == codeForeignKeyViolation
}

// IsPgNoRowsError checks if error is a "no rows" error.
// An INSERT ... ON CONFLICT DO NOTHING RETURNING that skipped its row ends here too.
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
