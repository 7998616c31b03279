package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/ezschema/internal/compiler"
	"github.com/koustreak/ezschema/internal/logger"
)

// addMigrateFlags registers the flags plan and migrate share. Their values
// reach the engine through the config, so only the definitions live here.
func addMigrateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("prune", false, "drop tables and columns the models no longer name")
	cmd.Flags().String("primary-key", "", "surrogate key column added to every table (default: id)")
}

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the SQL needed to bring the database in line with the models",
		Long: `Compile the model document, compare it with the live database schema and
print the statements migrate would run. Nothing is applied.`,
		Example: `  ezschema plan --dsn sqlite://db/development.sqlite3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			log := logger.FromContext(ctx)

			c, err := loadCompiler(ctx, cfg, log)
			if err != nil {
				return err
			}

			eng, db, err := openEngine(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			plan, err := eng.Plan(ctx, c.Spec())
			if err != nil {
				return err
			}
			if plan.Empty() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "-- schema is up to date")
				return nil
			}
			for _, stmt := range plan.Statements {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
			}
			return nil
		},
	}
	addMigrateFlags(cmd)
	return cmd
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	var silent bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the model document to the database schema",
		Long: `Compile the model document and create or alter tables so the database
matches it. Every statement is logged before it runs unless --silent is set.

Tables and columns that the models do not name are kept unless --prune is set.`,
		Example: `  ezschema migrate --dsn postgres://app@localhost:5432/app?sslmode=disable
  ezschema migrate --silent --prune`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			log := logger.FromContext(ctx)

			eng, db, err := openEngine(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			c, err := loadCompiler(ctx, cfg, log, compiler.WithMigrator(eng))
			if err != nil {
				return err
			}
			if err := c.ApplyToSchema(ctx, silent); err != nil {
				if silent {
					return quietError{err}
				}
				return err
			}
			if !silent {
				log.Infof("applied %d models to the database", c.Spec().Len())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&silent, "silent", false, "do not log statements or migration failures; the exit status still reports them")
	addMigrateFlags(cmd)
	return cmd
}
