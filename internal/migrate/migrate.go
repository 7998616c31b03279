// Package migrate reconciles a live database schema with a compiled model
// specification using the Atlas schema engine.
//
// Each model becomes a table and each column a nullable column. Tables and
// columns the spec does not mention are left alone unless pruning is on.
package migrate

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"

	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/logger"
	"github.com/koustreak/ezschema/internal/modelspec"
)

// DefaultPrimaryKey is the surrogate key added to every table.
const DefaultPrimaryKey = "id"

// Migrator applies a spec to a database.
type Migrator interface {
	Migrate(ctx context.Context, spec *modelspec.Spec, silent bool) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrune lets the engine drop tables and columns the spec no longer has.
func WithPrune(prune bool) Option {
	return func(e *Engine) { e.prune = prune }
}

// WithPrimaryKey renames the surrogate key column. An empty name disables it.
func WithPrimaryKey(name string) Option {
	return func(e *Engine) { e.primaryKey = name }
}

// WithLogger sets where applied statements are reported.
func WithLogger(s logger.Sink) Option {
	return func(e *Engine) { e.log = s }
}

// Engine is the Atlas backed Migrator.
type Engine struct {
	db      schema.ExecQuerier
	dialect *Dialect

	prune      bool
	primaryKey string
	log        logger.Sink
}

// New builds an Engine over an open database.
func New(db database.DB, opts ...Option) (*Engine, error) {
	d, err := DialectFor(db.Driver())
	if err != nil {
		return nil, err
	}
	return NewWithDialect(db.SQL(), d, opts...), nil
}

// NewWithDialect builds an Engine over any connection Atlas can query.
func NewWithDialect(db schema.ExecQuerier, d *Dialect, opts ...Option) *Engine {
	e := &Engine{
		db:         db,
		dialect:    d,
		primaryKey: DefaultPrimaryKey,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan is the set of changes needed to bring the database in line with a
// spec.
type Plan struct {
	Changes    []schema.Change
	Statements []string

	// Skipped counts drops left out because pruning is off.
	Skipped int
}

// Empty reports whether the database already matches.
func (p *Plan) Empty() bool { return len(p.Changes) == 0 }

// Plan computes the changes without applying them.
func (e *Engine) Plan(ctx context.Context, spec *modelspec.Spec) (*Plan, error) {
	drv, changes, skipped, err := e.diff(ctx, spec)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Changes: changes, Skipped: skipped}
	if len(changes) == 0 {
		return plan, nil
	}
	p, err := drv.PlanChanges(ctx, "ezschema", changes)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindMigrationFailed, "could not plan schema changes", err)
	}
	for _, c := range p.Changes {
		plan.Statements = append(plan.Statements, c.Cmd)
	}
	return plan, nil
}

// Migrate applies spec. Unless silent every statement is logged before it
// runs.
func (e *Engine) Migrate(ctx context.Context, spec *modelspec.Spec, silent bool) error {
	plan, err := e.Plan(ctx, spec)
	if err != nil {
		return err
	}
	if !silent && plan.Skipped > 0 {
		e.log.Warn(fmt.Sprintf("kept %d unmanaged table(s) or column(s); enable prune to drop them", plan.Skipped))
	}
	if plan.Empty() {
		if !silent {
			e.log.Info("schema is up to date")
		}
		return nil
	}

	if !silent {
		for _, stmt := range plan.Statements {
			e.log.Info(stmt)
		}
	}

	drv, err := e.open()
	if err != nil {
		return err
	}
	if err := drv.ApplyChanges(ctx, plan.Changes); err != nil {
		return errs.Wrap(errs.ErrKindMigrationFailed, "could not apply schema changes", err)
	}
	return nil
}

func (e *Engine) open() (migrate.Driver, error) {
	drv, err := e.dialect.open(e.db)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "could not open "+string(e.dialect.Name)+" migration driver", err)
	}
	return drv, nil
}

func (e *Engine) diff(ctx context.Context, spec *modelspec.Spec) (migrate.Driver, []schema.Change, int, error) {
	tables, err := Tables(spec, e.dialect, e.primaryKey)
	if err != nil {
		return nil, nil, 0, err
	}

	drv, err := e.open()
	if err != nil {
		return nil, nil, 0, err
	}

	current, err := drv.InspectSchema(ctx, "", nil)
	if err != nil {
		return nil, nil, 0, errs.Wrap(errs.ErrKindMigrationFailed, "could not inspect the live schema", err)
	}

	desired := schema.New(current.Name).AddTables(tables...)
	desired.Attrs = current.Attrs
	if !e.prune {
		keepUnmanaged(current, desired)
	}

	changes, err := drv.SchemaDiff(current, desired)
	if err != nil {
		return nil, nil, 0, errs.Wrap(errs.ErrKindMigrationFailed, "could not compute schema changes", err)
	}

	skipped := 0
	if !e.prune {
		changes, skipped = withoutDrops(changes)
	}
	return drv, changes, skipped, nil
}

// keepUnmanaged adds to the desired tables every live column the spec does
// not mention. A table that has to be rebuilt then keeps them too.
func keepUnmanaged(current, desired *schema.Schema) {
	for _, live := range current.Tables {
		want, ok := desired.Table(live.Name)
		if !ok {
			continue
		}
		for _, c := range live.Columns {
			if _, ok := want.Column(c.Name); !ok {
				want.AddColumns(c)
			}
		}
	}
}

// withoutDrops removes every change that would drop a live table, column,
// index or foreign key, and reports how many were removed.
func withoutDrops(changes []schema.Change) ([]schema.Change, int) {
	kept := make([]schema.Change, 0, len(changes))
	skipped := 0
	for _, c := range changes {
		switch c := c.(type) {
		case *schema.DropTable:
			skipped++
			continue
		case *schema.ModifyTable:
			inner := make([]schema.Change, 0, len(c.Changes))
			for _, tc := range c.Changes {
				switch tc.(type) {
				case *schema.DropColumn, *schema.DropIndex, *schema.DropForeignKey:
					skipped++
					continue
				}
				inner = append(inner, tc)
			}
			if len(inner) == 0 {
				continue
			}
			c.Changes = inner
		}
		kept = append(kept, c)
	}
	return kept, skipped
}
