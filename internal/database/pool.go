package database

import (
	"context"
	"database/sql"

	"github.com/koustreak/ezschema/internal/errs"
)

// MapErrorFunc translates an engine error into a *errs.Error.
type MapErrorFunc func(err error, msg string) *errs.Error

// Pool is the DB implementation shared by the database/sql based engines.
// It is safe for concurrent use by multiple goroutines.
type Pool struct {
	db       *sql.DB
	driver   Driver
	mapError MapErrorFunc
	onClose  func()
}

// NewPool wraps db. onClose, when set, runs after db is closed.
func NewPool(driver Driver, db *sql.DB, mapError MapErrorFunc, onClose func()) *Pool {
	return &Pool{db: db, driver: driver, mapError: mapError, onClose: onClose}
}

// Tune applies the pool settings of cfg to db.
func Tune(db *sql.DB, cfg *Config) {
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(int(cfg.MinConns))
	}
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
	if cfg.MaxConnIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	}
}

// Verify pings p within cfg.ConnectTimeout and closes it on failure.
func Verify(ctx context.Context, p *Pool, cfg *Config) error {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		_ = p.Close()
		return err
	}
	return nil
}

// Ping verifies the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return p.mapError(err, "ping failed")
	}
	return nil
}

// Close drains the pool.
func (p *Pool) Close() error {
	err := p.db.Close()
	if p.onClose != nil {
		p.onClose()
	}
	if err != nil {
		return p.mapError(err, "close failed")
	}
	return nil
}

func (p *Pool) Driver() Driver { return p.driver }

func (p *Pool) SQL() *sql.DB { return p.db }
