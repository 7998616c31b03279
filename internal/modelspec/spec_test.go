package modelspec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func bookSpec() *Spec {
	return &Spec{Models: []*Model{{
		Name: "Book",
		Columns: []*Column{
			{Name: "title", Type: TypeString},
			{Name: "price", Type: TypeInteger, Default: int64(0)},
			{Name: "hardcover?", Type: TypeBoolean, Default: true},
		},
	}}}
}

func TestSpec_Lookup(t *testing.T) {
	s := bookSpec()

	m, ok := s.Model("Book")
	require.True(t, ok)
	assert.Equal(t, 1, s.Len())

	c, ok := m.Column("price")
	require.True(t, ok)
	assert.Equal(t, int64(0), c.Default)

	_, ok = m.Column("missing")
	assert.False(t, ok)
	_, ok = s.Model("Author")
	assert.False(t, ok)

	var nilSpec *Spec
	assert.Equal(t, 0, nilSpec.Len())
	_, ok = nilSpec.Model("Book")
	assert.False(t, ok)
}

func TestSpec_MarshalJSON_KeepsOrder(t *testing.T) {
	b, err := json.Marshal(bookSpec())
	require.NoError(t, err)

	assert.Equal(t,
		`{"Book":{"title":{"type":"string","default":null},"price":{"type":"integer","default":0},"hardcover?":{"type":"boolean","default":true}}}`,
		string(b))
}

func TestSpec_MarshalJSON_Empty(t *testing.T) {
	b, err := json.Marshal(New())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestSpec_MarshalYAML(t *testing.T) {
	b, err := yaml.Marshal(bookSpec())
	require.NoError(t, err)

	want := `Book:
    title:
        type: string
        default: null
    price:
        type: integer
        default: 0
    hardcover?:
        type: boolean
        default: true
`
	assert.Equal(t, want, string(b))
}
