package mysql

import (
	"context"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/ezschema/internal/errs"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDBAccessDenied  = 1044
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errTableExists     = 1050
	errBadField        = 1054
	errDupFieldName    = 1060
	errParseError      = 1064
	errNoSuchTable     = 1146
	errTableAccess     = 1142
	errConnRefused     = 2003
	errQueryTimeout    = 3024
)

// classifyCode maps a server error number to an error kind.
func classifyCode(n uint16) errs.ErrKind {
	switch n {
	case errDBAccessDenied, errAccessDenied, errTableAccess:
		return errs.ErrKindPermissionDenied
	case errUnknownDatabase:
		return errs.ErrKindNotFound
	case errConnRefused:
		return errs.ErrKindConnectionFailed
	case errQueryTimeout:
		return errs.ErrKindTimeout
	case errTableExists, errBadField, errDupFieldName, errParseError, errNoSuchTable:
		return errs.ErrKindQueryFailed
	default:
		return errs.ErrKindUnknown
	}
}

// mapError translates a MySQL driver error into a *errs.Error. Errors that
// never reached the server are treated as connection failures.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(classifyCode(mysqlErr.Number), msg, err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
