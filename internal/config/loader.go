package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/koustreak/ezschema/internal/errs"
)

// EnvPrefix starts every environment variable ezschema reads. A double
// underscore separates nesting levels: EZSCHEMA_DATABASE__DSN sets
// database.dsn.
const EnvPrefix = "EZSCHEMA_"

// FileNames are searched for, in order, when no file is given.
var FileNames = []string{"ezschema.yaml", "ezschema.yml"}

// flagKeys maps command-line flags to config keys. Other flags are not
// configuration.
var flagKeys = map[string]string{
	"models":      "models",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"dsn":         "database.dsn",
	"prune":       "migrate.prune",
	"primary-key": "migrate.primary_key",
	"addr":        "server.addr",
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. It must exist when set.
	File string

	// Dir is searched for FileNames when File is empty. Defaults to ".".
	Dir string

	// Flags are applied last; only flags marked as changed are used.
	Flags *pflag.FlagSet
}

// Load merges all sources and validates the result.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to load defaults", err)
	}

	path, err := findFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errs.Wrap(errs.ErrKindParseFailed, "error reading config file "+path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to load environment", err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, flagKey(opts.Flags)), nil); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to load flags", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindParseFailed, "unable to decode config", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns EZSCHEMA_MIGRATE__PRIMARY_KEY into migrate.primary_key.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func flagKey(flags *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}
}

func findFile(opts Options) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", errs.Wrap(errs.ErrKindNotFound, "config file "+opts.File+" not found", err)
		}
		return opts.File, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}
