package loader

import (
	"testing"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestLoad_Book(t *testing.T) {
	doc, err := Load("Book:\n  title: string\n  price: integer(0)\n  author:\n  hardcover?:\n")
	require.NoError(t, err)
	require.Len(t, doc.Models, 1)

	book := doc.Models[0]
	assert.Equal(t, "Book", book.Name)
	assert.Equal(t, ShapeMapping, book.Shape)
	assert.Equal(t, 1, book.Line)

	names := make([]string, len(book.Columns))
	for i, c := range book.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"title", "price", "author", "hardcover?"}, names)
	assert.Equal(t, ptr("string"), book.Columns[0].Annotation)
	assert.Equal(t, ptr("integer(0)"), book.Columns[1].Annotation)
	assert.Nil(t, book.Columns[2].Annotation)
	assert.Nil(t, book.Columns[3].Annotation)
	assert.Equal(t, 3, book.Columns[1].Line)
}

func TestLoad_KeepsModelOrder(t *testing.T) {
	doc, err := Load("Zebra:\n  name:\nApple:\n  name:\nMango:\n  name:\n")
	require.NoError(t, err)

	var names []string
	for _, m := range doc.Models {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Zebra", "Apple", "Mango"}, names)
}

func TestLoad_Shapes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Shape
	}{
		{name: "mapping", text: "Book:\n  title: string\n", want: ShapeMapping},
		{name: "sequence", text: "Book:\n  - title\n  - price\n", want: ShapeSequence},
		{name: "scalar", text: "Book: string\n", want: ShapeScalar},
		{name: "null", text: "Book:\n", want: ShapeNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load(tt.text)
			require.NoError(t, err)
			require.Len(t, doc.Models, 1)
			assert.Equal(t, tt.want, doc.Models[0].Shape)
			assert.Equal(t, tt.want == ShapeMapping, doc.Models[0].Columns != nil)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	for _, text := range []string{"", "# only a comment\n", "~\n"} {
		doc, err := Load(text)
		require.NoError(t, err, text)
		assert.Empty(t, doc.Models, text)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind errs.ErrKind
	}{
		{name: "invalid yaml", text: "Book:\n  title: string, default: foo\n", kind: errs.ErrKindParseFailed},
		{name: "root is a list", text: "- Book\n- Author\n", kind: errs.ErrKindShapeMismatch},
		{name: "duplicate model", text: "Book:\n  a:\nBook:\n  b:\n", kind: errs.ErrKindParseFailed},
		{name: "duplicate column", text: "Book:\n  title: string\n  title: text\n", kind: errs.ErrKindParseFailed},
		{name: "nested column value", text: "Book:\n  title:\n    type: string\n", kind: errs.ErrKindInvalidInput},
		{name: "numeric annotation", text: "Book:\n  price: 5\n", kind: errs.ErrKindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.text)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err), err.Error())
		})
	}
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "mapping", ShapeMapping.String())
	assert.Equal(t, "sequence", ShapeSequence.String())
	assert.Equal(t, "scalar", ShapeScalar.String())
	assert.Equal(t, "null", ShapeNull.String())
}
