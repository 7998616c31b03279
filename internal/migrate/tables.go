package migrate

import (
	"strconv"
	"strings"

	"ariga.io/atlas/sql/schema"
	"github.com/go-openapi/inflect"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/modelspec"
)

// TableName derives the table of a model: Book becomes books and
// LineItem becomes line_items.
func TableName(model string) string {
	return inflect.Pluralize(inflect.Underscore(model))
}

// ColumnName derives the SQL column of a model column. The trailing ? that
// marks boolean columns is dropped.
func ColumnName(column string) string {
	return strings.TrimSuffix(column, "?")
}

// Tables builds the desired tables for spec in model order.
func Tables(spec *modelspec.Spec, d *Dialect, primaryKey string) ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, spec.Len())
	seen := make(map[string]string, spec.Len())
	for _, m := range spec.Models {
		t, err := table(m, d, primaryKey)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[t.Name]; dup {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "models %s and %s both map to table %s", other, m.Name, t.Name)
		}
		seen[t.Name] = m.Name
		tables = append(tables, t)
	}
	return tables, nil
}

func table(m *modelspec.Model, d *Dialect, primaryKey string) (*schema.Table, error) {
	t := schema.NewTable(TableName(m.Name))

	var pk *schema.Column
	if _, declared := m.Column(primaryKey); !declared && primaryKey != "" {
		pk = d.PrimaryKey(primaryKey)
		t.AddColumns(pk)
	}

	names := make(map[string]bool, len(m.Columns))
	for _, c := range m.Columns {
		col, err := column(m.Name, c, d)
		if err != nil {
			return nil, err
		}
		if names[col.Name] {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "model %s declares column %s twice", m.Name, col.Name)
		}
		names[col.Name] = true

		if c.Name == primaryKey {
			col.Type.Null = false
			pk = col
		}
		t.AddColumns(col)
	}

	if pk != nil {
		t.SetPrimaryKey(schema.NewPrimaryKey(pk))
	}
	return t, nil
}

func column(model string, c *modelspec.Column, d *Dialect) (*schema.Column, error) {
	build, ok := d.Types[c.Type]
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput,
			"column %s of model %s has type %q, which %s cannot store", c.Name, model, c.Type, d.Name)
	}

	col := schema.NewNullColumn(ColumnName(c.Name)).SetType(build())
	if lit, ok := literal(c.Type, c.Default); ok {
		col.SetDefault(&schema.Literal{V: lit})
	}
	return col, nil
}

// literal renders a default as SQL. It reports false when there is no
// default.
func literal(typ string, v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case bool:
		return strconv.FormatBool(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case string:
		if typ == modelspec.TypeBoolean {
			if b, err := strconv.ParseBool(v); err == nil {
				return strconv.FormatBool(b), true
			}
		}
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", true
	default:
		return "", false
	}
}
