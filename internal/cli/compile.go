package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/logger"
	"github.com/koustreak/ezschema/internal/modelspec"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the model document and print the result",
		Long: `Compile the model document and print every model with its columns,
their types and default values.`,
		Example: `  # Table view
  ezschema compile

  # Machine-readable output
  ezschema compile -o json
  ezschema compile --models s3://configs/app/models.yml -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := loadCompiler(ctx, GetConfig(ctx), logger.FromContext(ctx))
			if err != nil {
				return err
			}
			return renderSpec(cmd.OutOrStdout(), c.Spec(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text|json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func renderSpec(w io.Writer, spec *modelspec.Spec, format string) error {
	switch format {
	case "json":
		return renderJSON(w, spec)
	case "yaml":
		return renderYAML(w, spec)
	case "text", "":
		renderTable(w, spec)
		return nil
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown output format %q, want text, json or yaml", format)
	}
}

func renderTable(w io.Writer, spec *modelspec.Spec) {
	if spec.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(no models)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "Column", "Type", "Default"})

	for _, m := range spec.Models {
		for _, c := range m.Columns {
			t.AppendRow(table.Row{m.Name, c.Name, c.Type, formatDefault(c.Default)})
		}
	}

	t.Render()
	if n := spec.Len(); n == 1 {
		_, _ = fmt.Fprintln(w, "(1 model)")
	} else {
		_, _ = fmt.Fprintf(w, "(%d models)\n", n)
	}
}

func formatDefault(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

func renderJSON(w io.Writer, spec *modelspec.Spec) error {
	b, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

func renderYAML(w io.Writer, spec *modelspec.Spec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return err
	}
	return enc.Close()
}
