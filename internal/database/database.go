// Package database opens the SQL connection the migration engine works on.
//
// Engines live in subpackages that register themselves on import, the same
// way database/sql drivers do:
//
//	import _ "github.com/koustreak/ezschema/internal/database/postgres"
//
//	db, err := database.Open(ctx, database.DefaultConfig(dsn))
//	if err != nil { ... }
//	defer db.Close()
package database

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/koustreak/ezschema/internal/errs"
)

// DB is an open, verified connection pool.
type DB interface {
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close() error

	// Driver reports the engine behind the pool.
	Driver() Driver

	// SQL exposes the pool for the migration engine.
	SQL() *sql.DB
}

// OpenFunc connects to one engine.
type OpenFunc func(ctx context.Context, cfg *Config) (DB, error)

var (
	mu      sync.RWMutex
	openers = map[Driver]OpenFunc{}
)

// Register makes an engine available to Open. It panics if fn is nil or the
// driver is registered twice.
func Register(d Driver, fn OpenFunc) {
	mu.Lock()
	defer mu.Unlock()
	if fn == nil {
		panic("database: Register opener is nil")
	}
	if _, dup := openers[d]; dup {
		panic("database: Register called twice for driver " + string(d))
	}
	openers[d] = fn
}

// Drivers returns the registered engines, sorted.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(openers))
	for d := range openers {
		names = append(names, string(d))
	}
	sort.Strings(names)
	return names
}

// Open validates cfg and connects with the registered engine.
func Open(ctx context.Context, cfg *Config) (DB, error) {
	if cfg == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "database config is nil")
	}
	if cfg.Driver == "" {
		d, err := DetectDriver(cfg.DSN)
		if err != nil {
			return nil, err
		}
		cfg.Driver = d
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.RLock()
	fn, ok := openers[cfg.Driver]
	mu.RUnlock()
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "database driver %q is not linked in", cfg.Driver)
	}
	return fn(ctx, cfg)
}
