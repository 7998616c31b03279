// Package postgres connects to PostgreSQL through pgxpool and exposes the
// pool as a *sql.DB for the migration engine.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/koustreak/ezschema/internal/database"
)

func init() {
	database.Register(database.DriverPostgres, func(ctx context.Context, cfg *database.Config) (database.DB, error) {
		return New(ctx, cfg)
	})
}

// New connects to PostgreSQL using cfg and pings before returning.
func New(ctx context.Context, cfg *database.Config) (*database.Pool, error) {
	pool, err := buildPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDBFromPool(pool)
	p := database.NewPool(database.DriverPostgres, db, mapError, pool.Close)
	if err := database.Verify(ctx, p, cfg); err != nil {
		return nil, err
	}
	return p, nil
}
