// Package cli provides the ezschema command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koustreak/ezschema/internal/config"
	"github.com/koustreak/ezschema/internal/logger"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type configKey struct{}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "ezschema",
		Short: "Compile model documents and apply them to a database",
		Long: `ezschema reads a lightweight model document (db/models.yml by default),
compiles it into typed columns with defaults and keeps a database schema in
line with it.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(config.Options{File: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}

			lc := cfg.ForLogger()
			lc.Output = cmd.ErrOrStderr()
			log := logger.New(lc)
			if cfg.File != "" {
				log.Debugf("using config file %s", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			cmd.SetContext(log.WithContext(ctx))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ezschema.yaml)")
	root.PersistentFlags().String("models", "", "model document, a path or s3://bucket/key (default: db/models.yml)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("log-format", "", "log format (console|json)")
	root.PersistentFlags().String("dsn", "", "database DSN (postgres://, mysql://, sqlite://)")

	_ = root.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"console", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(NewVersionCommand(Version))
	root.AddCommand(NewInitCommand())
	root.AddCommand(NewCompileCommand())
	root.AddCommand(NewPlanCommand())
	root.AddCommand(NewMigrateCommand())
	root.AddCommand(NewServeCommand())

	return root
}

// quietError fails a command without Execute printing it.
type quietError struct{ err error }

func (e quietError) Error() string { return e.err.Error() }
func (e quietError) Unwrap() error { return e.err }

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.As(err, &quietError{}) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// GetConfig retrieves the config stored by the root command.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Models: config.DefaultModels,
		Log:    config.LogConfig{Level: config.DefaultLogLevel, Format: config.DefaultLogFormat},
		Migrate: config.MigrateConfig{
			PrimaryKey: config.DefaultPrimaryKey,
		},
		Server: config.ServerConfig{Addr: config.DefaultServerAddr},
	}
}

