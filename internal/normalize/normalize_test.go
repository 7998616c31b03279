package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRules_Order(t *testing.T) {
	names := make([]string, len(Rules))
	for i, r := range Rules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"colon", "default", "bullet"}, names)
}

func TestColonRule(t *testing.T) {
	colon := Rules[0]
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "model name", in: "Book", want: "Book:"},
		{name: "indented column", in: "  author", want: "  author:"},
		{name: "boolean column", in: "  hardcover?", want: "  hardcover?:"},
		{name: "bulleted column", in: "  - author", want: "  - author:"},
		{name: "already has colon", in: "  title: string", want: "  title: string"},
		{name: "single character untouched", in: "  x", want: "  x"},
		{name: "comment untouched", in: "# Example table", want: "# Example table"},
		{name: "every line", in: "Book\n  author\n  published_at", want: "Book:\n  author:\n  published_at:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, colon.Apply(tt.in))
		})
	}
}

func TestDefaultRule(t *testing.T) {
	def := Rules[1]
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "comma default", in: "  price: integer, default: 0", want: "  price: integer(0)"},
		{name: "colon default", in: "  price: integer: 0", want: "  price: integer(0)"},
		{name: "space default", in: "  price: integer 0", want: "  price: integer(0)"},
		{name: "trailing whitespace", in: "  price: integer 5  ", want: "  price: integer(5)"},
		{name: "bracketed untouched", in: "  price: integer(0)", want: "  price: integer(0)"},
		{name: "plain type untouched", in: "  title: string", want: "  title: string"},
		{name: "multi character default untouched", in: "  stock: integer 10", want: "  stock: integer 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, def.Apply(tt.in))
		})
	}
}

func TestBulletRule(t *testing.T) {
	bullet := Rules[2]

	assert.Equal(t, "  price: integer", bullet.Apply("  - price: integer"))
	assert.Equal(t, "  price: integer", bullet.Apply("  -price: integer"))
	assert.Equal(t, "Book:\n  title: string", bullet.Apply("Book:\n  - title: string"))
}

func TestString_BulletEquivalence(t *testing.T) {
	withBullet := String("Book\n  - price: integer\n")
	plain := String("Book\n  price: integer\n")

	assert.Equal(t, plain, withBullet)
}

func TestString_Book(t *testing.T) {
	in := "Book\n" +
		"  title: string\n" +
		"  price: integer, default: 0\n" +
		"  - author\n" +
		"  published_at\n" +
		"  hardcover?\n"

	want := "Book:\n" +
		"  title: string\n" +
		"  price: integer(0)\n" +
		"  author:\n" +
		"  published_at:\n" +
		"  hardcover?:\n"

	assert.Equal(t, want, String(in))
}

func TestString_Idempotent(t *testing.T) {
	normalized := "Book:\n" +
		"  title: string\n" +
		"  price: integer(0)\n" +
		"  author:\n" +
		"Author:\n" +
		"  name: string\n"

	assert.Equal(t, normalized, String(normalized))
	assert.Equal(t, String(normalized), String(String(normalized)))
}
