package migrate

import (
	"ariga.io/atlas/sql/migrate"
	atlasmysql "ariga.io/atlas/sql/mysql"
	atlaspg "ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	atlassqlite "ariga.io/atlas/sql/sqlite"

	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/errs"
)

// Dialect is how one engine spells the column types a model may use.
type Dialect struct {
	Name database.Driver

	// Types maps a column type name to a constructor for the engine type.
	Types map[string]func() schema.Type

	// PrimaryKey builds the surrogate key column added to every table.
	PrimaryKey func(name string) *schema.Column

	open func(schema.ExecQuerier) (migrate.Driver, error)
}

var dialects = map[database.Driver]*Dialect{
	database.DriverPostgres: {
		Name: database.DriverPostgres,
		Types: map[string]func() schema.Type{
			"string":   func() schema.Type { return &schema.StringType{T: "character varying", Size: 255} },
			"text":     func() schema.Type { return &schema.StringType{T: "text"} },
			"integer":  func() schema.Type { return &schema.IntegerType{T: "integer"} },
			"bigint":   func() schema.Type { return &schema.IntegerType{T: "bigint"} },
			"boolean":  func() schema.Type { return &schema.BoolType{T: "boolean"} },
			"date":     func() schema.Type { return &schema.TimeType{T: "date"} },
			"datetime": func() schema.Type { return &schema.TimeType{T: "timestamp without time zone"} },
			"time":     func() schema.Type { return &schema.TimeType{T: "time without time zone"} },
			"float":    func() schema.Type { return &schema.FloatType{T: "double precision"} },
			"decimal":  func() schema.Type { return &schema.DecimalType{T: "numeric", Precision: 10, Scale: 2} },
			"binary":   func() schema.Type { return &schema.BinaryType{T: "bytea"} },
			"json":     func() schema.Type { return &schema.JSONType{T: "jsonb"} },
		},
		PrimaryKey: func(name string) *schema.Column {
			return schema.NewIntColumn(name, "bigint").AddAttrs(&atlaspg.Identity{Generation: "BY DEFAULT"})
		},
		open: func(db schema.ExecQuerier) (migrate.Driver, error) { return atlaspg.Open(db) },
	},
	database.DriverMySQL: {
		Name: database.DriverMySQL,
		Types: map[string]func() schema.Type{
			"string":   func() schema.Type { return &schema.StringType{T: "varchar", Size: 255} },
			"text":     func() schema.Type { return &schema.StringType{T: "text"} },
			"integer":  func() schema.Type { return &schema.IntegerType{T: "int"} },
			"bigint":   func() schema.Type { return &schema.IntegerType{T: "bigint"} },
			"boolean":  func() schema.Type { return &schema.BoolType{T: "bool"} },
			"date":     func() schema.Type { return &schema.TimeType{T: "date"} },
			"datetime": func() schema.Type { return &schema.TimeType{T: "datetime"} },
			"time":     func() schema.Type { return &schema.TimeType{T: "time"} },
			"float":    func() schema.Type { return &schema.FloatType{T: "double"} },
			"decimal":  func() schema.Type { return &schema.DecimalType{T: "decimal", Precision: 10, Scale: 2} },
			"binary":   func() schema.Type { return &schema.BinaryType{T: "blob"} },
			"json":     func() schema.Type { return &schema.JSONType{T: "json"} },
		},
		PrimaryKey: func(name string) *schema.Column {
			return schema.NewIntColumn(name, "bigint").AddAttrs(&atlasmysql.AutoIncrement{})
		},
		open: func(db schema.ExecQuerier) (migrate.Driver, error) { return atlasmysql.Open(db) },
	},
	database.DriverSQLite: {
		Name: database.DriverSQLite,
		Types: map[string]func() schema.Type{
			"string":   func() schema.Type { return &schema.StringType{T: "text"} },
			"text":     func() schema.Type { return &schema.StringType{T: "text"} },
			"integer":  func() schema.Type { return &schema.IntegerType{T: "integer"} },
			"bigint":   func() schema.Type { return &schema.IntegerType{T: "bigint"} },
			"boolean":  func() schema.Type { return &schema.BoolType{T: "boolean"} },
			"date":     func() schema.Type { return &schema.TimeType{T: "date"} },
			"datetime": func() schema.Type { return &schema.TimeType{T: "datetime"} },
			"time":     func() schema.Type { return &schema.TimeType{T: "time"} },
			"float":    func() schema.Type { return &schema.FloatType{T: "real"} },
			"decimal":  func() schema.Type { return &schema.DecimalType{T: "decimal", Precision: 10, Scale: 2} },
			"binary":   func() schema.Type { return &schema.BinaryType{T: "blob"} },
			"json":     func() schema.Type { return &schema.JSONType{T: "json"} },
		},
		// INTEGER PRIMARY KEY aliases the rowid and is assigned automatically.
		PrimaryKey: func(name string) *schema.Column {
			return schema.NewIntColumn(name, "integer")
		},
		open: func(db schema.ExecQuerier) (migrate.Driver, error) { return atlassqlite.Open(db) },
	},
}

// DialectFor returns the dialect of an engine.
func DialectFor(d database.Driver) (*Dialect, error) {
	dialect, ok := dialects[d]
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "no migration dialect for driver %q", d)
	}
	return dialect, nil
}
