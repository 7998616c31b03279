package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/ezschema/internal/compiler"
	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/source"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter model document",
		Long: `Write a commented example model document describing a Book.

The document goes to the configured models location unless a path is given.
An existing document is never overwritten.`,
		Example: `  # Create db/models.yml
  ezschema init

  # Create a document somewhere else
  ezschema init config/models.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := GetConfig(cmd.Context()).Models
			if len(args) > 0 {
				path = args[0]
			}

			loc, err := source.Parse(path)
			if err != nil {
				return err
			}
			if loc.Remote() {
				return errs.Newf(errs.ErrKindInvalidInput, "cannot write a template to %s: init only writes local files", loc)
			}

			created, err := compiler.GenerateTemplate(path)
			if err != nil {
				return err
			}
			if !created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, leaving it alone\n", path)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			return nil
		},
	}
}
