// Package config loads ezschema settings. Sources are layered lowest to
// highest: built-in defaults, ezschema.yaml, EZSCHEMA_ environment
// variables, then command-line flags the user actually set.
package config

import (
	"time"

	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/filestore"
	"github.com/koustreak/ezschema/internal/logger"
)

// Config is the merged configuration.
type Config struct {
	// Models is the location of the model document, a path or s3://bucket/key.
	Models string `koanf:"models"`

	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Migrate  MigrateConfig  `koanf:"migrate"`
	Storage  StorageConfig  `koanf:"storage"`
	Server   ServerConfig   `koanf:"server"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
}

type MigrateConfig struct {
	// Prune allows dropping tables and columns the models no longer name.
	Prune bool `koanf:"prune"`

	// PrimaryKey is the surrogate key column added to every table.
	PrimaryKey string `koanf:"primary_key"`
}

type StorageConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
	Region    string `koanf:"region"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// ForLogger converts the log section for logger.New.
func (c *Config) ForLogger() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}

// ForDatabase converts the database section for database.Open.
func (c *Config) ForDatabase() *database.Config {
	cfg := database.DefaultConfig(c.Database.DSN)
	if c.Database.MaxConns > 0 {
		cfg.MaxConns = c.Database.MaxConns
	}
	if c.Database.MinConns > 0 {
		cfg.MinConns = c.Database.MinConns
	}
	if c.Database.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = c.Database.ConnMaxLifetime
	}
	if c.Database.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = c.Database.ConnMaxIdleTime
	}
	if c.Database.ConnectTimeout > 0 {
		cfg.ConnectTimeout = c.Database.ConnectTimeout
	}
	return cfg
}

// ForStorage converts the storage section for the object store driver.
func (c *Config) ForStorage() *filestore.Config {
	cfg := filestore.DefaultConfig(c.Storage.Endpoint, c.Storage.AccessKey, c.Storage.SecretKey)
	cfg.UseSSL = c.Storage.UseSSL
	cfg.Region = c.Storage.Region
	return cfg
}
