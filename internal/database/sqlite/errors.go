package sqlite

import (
	"context"
	"errors"

	"github.com/koustreak/ezschema/internal/errs"
	sqlite3 "modernc.org/sqlite/lib"
)

// coded is satisfied by the modernc driver's error type.
type coded interface {
	Code() int
}

// mapError translates a SQLite error into a *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var c coded
	if errors.As(err, &c) {
		// Extended result codes keep the primary code in the low byte.
		switch c.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		case sqlite3.SQLITE_PERM, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_AUTH:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		default:
			return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
		}
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
