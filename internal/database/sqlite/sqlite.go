// Package sqlite opens SQLite databases with the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/errs"
	_ "modernc.org/sqlite" // registers "sqlite" with database/sql
)

const driverName = "sqlite"

func init() {
	database.Register(database.DriverSQLite, func(ctx context.Context, cfg *database.Config) (database.DB, error) {
		return New(ctx, cfg)
	})
}

// New opens the database named by cfg.DSN and pings it.
func New(ctx context.Context, cfg *database.Config) (*database.Pool, error) {
	dsn := Path(cfg.DSN)
	if dsn == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "sqlite dsn names no database file")
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, mapError(err, "failed to open sqlite database")
	}
	database.Tune(db, cfg)

	// Every connection to :memory: gets its own database, so pin one.
	if inMemory(dsn) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	p := database.NewPool(database.DriverSQLite, db, mapError, nil)
	if err := database.Verify(ctx, p, cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Path strips the URL scheme from dsn and returns what the driver expects.
func Path(dsn string) string {
	for _, prefix := range []string{"sqlite://", "sqlite3://"} {
		if len(dsn) >= len(prefix) && strings.EqualFold(dsn[:len(prefix)], prefix) {
			return dsn[len(prefix):]
		}
	}
	return dsn
}

func inMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
