package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/ezschema/internal/errs"
)

// PostgreSQL SQLSTATE codes that matter to schema changes.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrInvalidPassword     = "28P01"
	pgErrInvalidAuth         = "28000"
	pgErrInsufficientPrivs   = "42501"
	pgErrInvalidCatalog      = "3D000"
	pgErrSyntaxError         = "42601"
	pgErrUndefinedTable      = "42P01"
	pgErrUndefinedColumn     = "42703"
	pgErrDuplicateTable      = "42P07"
	pgErrDuplicateColumn     = "42701"
	pgErrQueryCanceled       = "57014"
	pgClassConnectionFailure = "08"
)

// mapError translates a pgx error into a *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrInvalidPassword, pgErrInvalidAuth, pgErrInsufficientPrivs:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case pgErrInvalidCatalog:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case pgErrSyntaxError, pgErrUndefinedTable, pgErrUndefinedColumn, pgErrDuplicateTable, pgErrDuplicateColumn:
			return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
		case pgErrQueryCanceled:
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}
		if strings.HasPrefix(pgErr.Code, pgClassConnectionFailure) {
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		}
		return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
