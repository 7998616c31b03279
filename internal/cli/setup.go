package cli

import (
	"context"
	"time"

	"github.com/koustreak/ezschema/internal/compiler"
	"github.com/koustreak/ezschema/internal/config"
	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/filestore"
	"github.com/koustreak/ezschema/internal/filestore/minio"
	"github.com/koustreak/ezschema/internal/logger"
	"github.com/koustreak/ezschema/internal/migrate"
	"github.com/koustreak/ezschema/internal/source"
)

// storePingTimeout bounds the reachability check of the object store.
const storePingTimeout = 10 * time.Second

// openStore builds the object store client. Tests replace it.
var openStore = func(cfg *filestore.Config) (filestore.Store, error) {
	return minio.New(cfg)
}

// newReader reads local files, plus s3:// locations when an object store
// is configured. A configured store must answer a ping.
func newReader(ctx context.Context, cfg *config.Config) (*source.Reader, error) {
	sc := cfg.ForStorage()
	if !sc.Configured() {
		return source.New(nil), nil
	}
	store, err := openStore(sc)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return source.New(store), nil
}

// loadCompiler builds a compiler and loads the configured document. A load
// failure has already been logged by the compiler and is returned as is.
func loadCompiler(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...compiler.Option) (*compiler.Compiler, error) {
	reader, err := newReader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]compiler.Option{compiler.WithLogger(log), compiler.WithReader(reader)}, opts...)

	c := compiler.New(opts...)
	if err := c.Load(ctx, cfg.Models); err != nil {
		return nil, err
	}
	return c, nil
}

// openEngine connects to the configured database. The caller closes db.
func openEngine(ctx context.Context, cfg *config.Config, log *logger.Logger) (*migrate.Engine, database.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}

	db, err := database.Open(ctx, cfg.ForDatabase())
	if err != nil {
		return nil, nil, err
	}
	log.With().Str("driver", string(db.Driver())).Logger().Debug("connected to database")

	eng, err := migrate.New(db,
		migrate.WithPrune(cfg.Migrate.Prune),
		migrate.WithPrimaryKey(cfg.Migrate.PrimaryKey),
		migrate.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return eng, db, nil
}
