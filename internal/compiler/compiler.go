// Package compiler turns a model document into a modelspec.Spec and hands
// it to the migration engine.
//
// Compile is the strict entry point. Compiler wraps it for hosts that want
// log-and-continue behavior: a document that fails to compile is reported
// through the configured logger.Sink and leaves an empty spec behind, while
// the typed error is still returned for callers that care.
package compiler

import (
	"context"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/interpret"
	"github.com/koustreak/ezschema/internal/loader"
	"github.com/koustreak/ezschema/internal/logger"
	"github.com/koustreak/ezschema/internal/migrate"
	"github.com/koustreak/ezschema/internal/modelspec"
	"github.com/koustreak/ezschema/internal/normalize"
	"github.com/koustreak/ezschema/internal/source"
)

// DefaultLocation is where the model document lives unless configured.
const DefaultLocation = "db/models.yml"

// Compile normalizes, loads and interprets src.
//
// Every model must map to a set of columns. The first model that does not
// fails the whole document before any column is interpreted.
func Compile(src string) (*modelspec.Spec, error) {
	doc, err := loader.Load(normalize.String(src))
	if err != nil {
		return nil, err
	}

	for _, m := range doc.Models {
		if m.Shape != loader.ShapeMapping {
			return nil, errs.Newf(errs.ErrKindShapeMismatch,
				"could not understand models while parsing model: %s (found %s at line %d)", m.Name, m.Shape, m.Line)
		}
	}

	spec := modelspec.New()
	for _, m := range doc.Models {
		model := &modelspec.Model{Name: m.Name, Columns: make([]*modelspec.Column, 0, len(m.Columns))}
		for _, c := range m.Columns {
			model.Columns = append(model.Columns, interpret.Column(c.Name, c.Annotation))
		}
		spec.Models = append(spec.Models, model)
	}
	return spec, nil
}

// Reader fetches the raw text of a document.
type Reader interface {
	Read(ctx context.Context, location string) (string, error)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the sink failures are reported to.
func WithLogger(s logger.Sink) Option {
	return func(c *Compiler) { c.log = s }
}

// WithReader sets how document locations are read.
func WithReader(r Reader) Option {
	return func(c *Compiler) { c.reader = r }
}

// WithMigrator sets the engine ApplyToSchema forwards to.
func WithMigrator(m migrate.Migrator) Option {
	return func(c *Compiler) { c.migrator = m }
}

// Compiler holds the spec compiled from the most recent load.
// It is not safe for concurrent use.
type Compiler struct {
	log      logger.Sink
	reader   Reader
	migrator migrate.Migrator

	location string
	spec     *modelspec.Spec
}

// New returns a Compiler holding an empty spec. Without options it reads
// local files and logs to a discarding sink.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		log:    logger.Nop(),
		reader: source.New(nil),
		spec:   modelspec.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open builds a Compiler and loads location into it. It never fails: a bad
// document is logged and the Compiler is left with an empty spec.
func Open(ctx context.Context, location string, opts ...Option) *Compiler {
	c := New(opts...)
	_ = c.Load(ctx, location)
	return c
}

// Spec returns the spec from the most recent load.
func (c *Compiler) Spec() *modelspec.Spec { return c.spec }

// Location returns the location of the most recent Load.
func (c *Compiler) Location() string { return c.location }

// Load reads and compiles the document at location, replacing the held spec.
func (c *Compiler) Load(ctx context.Context, location string) error {
	if location == "" {
		location = DefaultLocation
	}
	c.location = location

	text, err := c.reader.Read(ctx, location)
	if err != nil {
		return c.fail(err, location)
	}
	return c.compile(text, location)
}

// LoadString compiles src directly, replacing the held spec.
func (c *Compiler) LoadString(src string) error {
	c.location = ""
	return c.compile(src, "")
}

func (c *Compiler) compile(text, location string) error {
	spec, err := Compile(text)
	if err != nil {
		return c.fail(err, location)
	}
	c.spec = spec
	return nil
}

func (c *Compiler) fail(err error, location string) error {
	c.spec = modelspec.New()
	fields := map[string]any{"kind": errs.KindOf(err).String()}
	if location != "" {
		fields["location"] = location
	}
	c.log.ErrorWith("could not load models", err, fields)
	return err
}

// ApplyToSchema forwards the held spec to the migration engine. Failures are
// returned as typed errors; unless silent they are also logged together
// with the frame where they were raised.
func (c *Compiler) ApplyToSchema(ctx context.Context, silent bool) error {
	if c.migrator == nil {
		return c.migrationFailed(errs.New(errs.ErrKindInvalidInput, "no migration engine configured"), silent)
	}

	if err := c.migrator.Migrate(ctx, c.spec, silent); err != nil {
		if errs.KindOf(err) == errs.ErrKindUnknown {
			err = errs.Wrap(errs.ErrKindMigrationFailed, "migration engine failed", err)
		}
		return c.migrationFailed(err, silent)
	}
	return nil
}

func (c *Compiler) migrationFailed(err error, silent bool) error {
	if !silent {
		c.log.Error(err.Error())
		if frame := errs.FrameOf(err); frame != "" {
			c.log.Error(frame)
		}
	}
	return err
}
