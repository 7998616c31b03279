// Package mysql connects to MySQL through go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/errs"
)

func init() {
	database.Register(database.DriverMySQL, func(ctx context.Context, cfg *database.Config) (database.DB, error) {
		return New(ctx, cfg)
	})
}

// New opens a MySQL pool using cfg and pings before returning.
func New(ctx context.Context, cfg *database.Config) (*database.Pool, error) {
	mc, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}
	connector, err := gomysql.NewConnector(mc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql config", err)
	}

	db := sql.OpenDB(connector)
	buildPool(db, cfg)

	p := database.NewPool(database.DriverMySQL, db, mapError, nil)
	if err := database.Verify(ctx, p, cfg); err != nil {
		return nil, err
	}
	return p, nil
}
