package config

import (
	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/errs"
)

// Validate checks settings that do not need a connection to verify.
func (c *Config) Validate() error {
	if c.Models == "" {
		return errs.New(errs.ErrKindInvalidInput, "models location is required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error", "off", "disabled":
	default:
		return errs.Newf(errs.ErrKindInvalidInput,
			"log.level must be debug, info, warn, error or off, got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "log.format must be json or console, got %q", c.Log.Format)
	}

	if c.Database.DSN != "" {
		if _, err := database.DetectDriver(c.Database.DSN); err != nil {
			return err
		}
		if err := c.ForDatabase().Validate(); err != nil {
			return err
		}
	}

	if c.Server.Addr == "" {
		return errs.New(errs.ErrKindInvalidInput, "server.addr is required")
	}
	return nil
}

// RequireDatabase reports an error when no database is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.DSN == "" {
		return errs.New(errs.ErrKindInvalidInput,
			"no database configured; set database.dsn, EZSCHEMA_DATABASE__DSN or --dsn")
	}
	return nil
}
