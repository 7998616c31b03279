package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/modelspec"
	"github.com/koustreak/ezschema/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	level string
	msg   string
	err   error
}

type recordingSink struct {
	records []record
}

func (s *recordingSink) Info(msg string)  { s.records = append(s.records, record{level: "info", msg: msg}) }
func (s *recordingSink) Warn(msg string)  { s.records = append(s.records, record{level: "warn", msg: msg}) }
func (s *recordingSink) Error(msg string) { s.records = append(s.records, record{level: "error", msg: msg}) }

func (s *recordingSink) ErrorWith(msg string, err error, _ map[string]any) {
	s.records = append(s.records, record{level: "error", msg: msg, err: err})
}

type fakeMigrator struct {
	err    error
	spec   *modelspec.Spec
	silent bool
	calls  int
}

func (m *fakeMigrator) Migrate(_ context.Context, spec *modelspec.Spec, silent bool) error {
	m.calls++
	m.spec = spec
	m.silent = silent
	return m.err
}

const bookDoc = "Book\n" +
	"  title: string\n" +
	"  price: integer, default: 0\n" +
	"  author\n" +
	"  published_at\n" +
	"  hardcover?\n"

func TestCompile_Book(t *testing.T) {
	spec, err := Compile(bookDoc)
	require.NoError(t, err)
	require.Equal(t, 1, spec.Len())

	book, ok := spec.Model("Book")
	require.True(t, ok)
	assert.Equal(t, []*modelspec.Column{
		{Name: "title", Type: "string"},
		{Name: "price", Type: "integer", Default: int64(0)},
		{Name: "author", Type: "string"},
		{Name: "published_at", Type: "datetime"},
		{Name: "hardcover?", Type: "boolean", Default: true},
	}, book.Columns)
}

func TestCompile_BulletedColumnsMatchPlain(t *testing.T) {
	plain, err := Compile("Book\n  title: string\n  price: integer(5)\n")
	require.NoError(t, err)
	bulleted, err := Compile("Book\n  - title: string\n  - price: integer(5)\n")
	require.NoError(t, err)

	assert.Equal(t, plain, bulleted)
}

func TestCompile_ModelOrder(t *testing.T) {
	spec, err := Compile("Zebra\n  name\nApple\n  name\n")
	require.NoError(t, err)
	require.Equal(t, 2, spec.Len())
	assert.Equal(t, "Zebra", spec.Models[0].Name)
	assert.Equal(t, "Apple", spec.Models[1].Name)
}

func TestCompile_Empty(t *testing.T) {
	for _, src := range []string{"", "\n", "# nothing yet\n"} {
		spec, err := Compile(src)
		require.NoError(t, err)
		assert.Equal(t, 0, spec.Len())
	}
}

func TestCompile_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		model string
	}{
		{name: "scalar model", src: "Book: string\n", model: "Book"},
		{name: "empty model", src: "Author\n  name\nBook:\n", model: "Book"},
		{name: "first offender wins", src: "Author\n  name\nBook: string\nShelf: wood\n", model: "Book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)
			assert.True(t, errs.IsShapeMismatch(err))
			assert.Contains(t, err.Error(), "parsing model: "+tt.model)
		})
	}
}

func TestCompile_ParseError(t *testing.T) {
	_, err := Compile("Book\n  title: [string\n")
	require.Error(t, err)
	assert.True(t, errs.IsParseFailed(err))
}

func TestCompiler_LoadString(t *testing.T) {
	sink := &recordingSink{}
	c := New(WithLogger(sink))

	require.NoError(t, c.LoadString(bookDoc))
	assert.Equal(t, 1, c.Spec().Len())
	assert.Empty(t, sink.records)

	err := c.LoadString("Book: string\n")
	require.Error(t, err)
	assert.True(t, errs.IsShapeMismatch(err))
	assert.Equal(t, 0, c.Spec().Len(), "a failed load leaves an empty spec")
	require.Len(t, sink.records, 1)
	assert.Equal(t, "error", sink.records[0].level)
	assert.Equal(t, err, sink.records[0].err)
}

func TestCompiler_LoadReplaces(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadString("Book\n  title\n"))
	require.NoError(t, c.LoadString("Author\n  name\n"))

	_, ok := c.Spec().Model("Book")
	assert.False(t, ok)
	_, ok = c.Spec().Model("Author")
	assert.True(t, ok)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.yml")
	require.NoError(t, os.WriteFile(path, []byte(bookDoc), 0o644))

	c := Open(context.Background(), path)
	assert.Equal(t, path, c.Location())
	assert.Equal(t, 1, c.Spec().Len())
}

func TestOpen_MissingFileLogsAndContinues(t *testing.T) {
	sink := &recordingSink{}
	c := Open(context.Background(), filepath.Join(t.TempDir(), "missing.yml"), WithLogger(sink))

	require.NotNil(t, c.Spec())
	assert.Equal(t, 0, c.Spec().Len())
	require.Len(t, sink.records, 1)
	assert.True(t, errs.IsNotFound(sink.records[0].err))
}

func TestCompiler_ApplyToSchema(t *testing.T) {
	m := &fakeMigrator{}
	c := New(WithMigrator(m))
	require.NoError(t, c.LoadString(bookDoc))

	require.NoError(t, c.ApplyToSchema(context.Background(), true))
	assert.Equal(t, 1, m.calls)
	assert.True(t, m.silent)
	assert.Same(t, c.Spec(), m.spec)
}

func TestCompiler_ApplyToSchemaFailure(t *testing.T) {
	tests := []struct {
		name      string
		engineErr error
		silent    bool
		wantKind  errs.ErrKind
		wantLines int
	}{
		{name: "foreign error is wrapped", engineErr: errors.New("boom"), wantKind: errs.ErrKindMigrationFailed, wantLines: 2},
		{name: "typed error keeps kind", engineErr: errs.New(errs.ErrKindInvalidInput, "unknown type"), wantKind: errs.ErrKindInvalidInput, wantLines: 2},
		{name: "silent logs nothing", engineErr: errors.New("boom"), silent: true, wantKind: errs.ErrKindMigrationFailed, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			c := New(WithLogger(sink), WithMigrator(&fakeMigrator{err: tt.engineErr}))

			err := c.ApplyToSchema(context.Background(), tt.silent)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errs.KindOf(err))
			assert.ErrorIs(t, err, tt.engineErr)
			require.Len(t, sink.records, tt.wantLines)
			if tt.wantLines > 0 {
				assert.Equal(t, err.Error(), sink.records[0].msg)
				assert.Contains(t, sink.records[1].msg, ".go:")
			}
		})
	}
}

func TestCompiler_ApplyToSchemaWithoutMigrator(t *testing.T) {
	err := New().ApplyToSchema(context.Background(), true)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestGenerateTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "models.yml")

	created, err := GenerateTemplate(path)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, os.WriteFile(path, []byte("Author\n"), 0o644))
	created, err = GenerateTemplate(path)
	require.NoError(t, err)
	assert.False(t, created, "an existing file is never overwritten")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Author\n", string(b))
}

func TestTemplate_Compiles(t *testing.T) {
	spec, err := Compile(Template)
	require.NoError(t, err)

	book, ok := spec.Model("Book")
	require.True(t, ok)
	assert.Equal(t, []*modelspec.Column{
		{Name: "title", Type: "string"},
		{Name: "price", Type: "integer"},
		{Name: "author", Type: "string"},
		{Name: "summary", Type: "text"},
		{Name: "hardcover", Type: "boolean", Default: true},
	}, book.Columns)
}

func TestTemplate_CommentsSurviveNormalization(t *testing.T) {
	want := strings.Split(Template, "\n")
	got := strings.Split(normalize.String(Template), "\n")
	require.Len(t, got, len(want), "normalization must not join lines")

	for i, line := range want {
		if strings.HasPrefix(line, "#") {
			assert.Equal(t, line, got[i])
		}
	}
}
