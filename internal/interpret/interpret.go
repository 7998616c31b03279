// Package interpret turns a column name and its raw annotation into a final
// column: it infers missing types from naming conventions, extracts default
// values embedded in the annotation and coerces them to the column type.
package interpret

import (
	"regexp"
	"strings"

	"github.com/koustreak/ezschema/internal/modelspec"
)

// suffixTypes is checked in order; the first matching suffix wins.
var suffixTypes = []struct {
	suffix string
	typ    string
}{
	{"_id", modelspec.TypeInteger},
	{"_count", modelspec.TypeInteger},
	{"_at", modelspec.TypeDateTime},
	{"_on", modelspec.TypeDate},
	{"?", modelspec.TypeBoolean},
}

// InferType returns the type implied by a column name.
func InferType(name string) string {
	for _, s := range suffixTypes {
		if strings.HasSuffix(name, s.suffix) {
			return s.typ
		}
	}
	return modelspec.TypeString
}

// Extractor strips one default-value form from a type annotation.
type Extractor struct {
	Name    string
	Pattern *regexp.Regexp
}

// Extractors run in order and all of them always run: when several match,
// the value captured by the last one is kept.
var Extractors = []Extractor{
	{Name: "parenthesized", Pattern: regexp.MustCompile(`\s*\((.+)?\)`)},   // integer(0)
	{Name: "trailing", Pattern: regexp.MustCompile(`\s+(.+)?\s*`)},         // integer 0
	{Name: "comma", Pattern: regexp.MustCompile(`,\s*default:\s*(.+)?\s*`)}, // integer, default: 0
}

// Apply removes the first match from typ. It reports whether the pattern
// matched and, when it did, the captured value (nil when the optional
// capture was empty).
func (e Extractor) Apply(typ string) (rest string, value any, ok bool) {
	loc := e.Pattern.FindStringSubmatchIndex(typ)
	if loc == nil {
		return typ, nil, false
	}
	rest = typ[:loc[0]] + typ[loc[1]:]
	if loc[2] >= 0 {
		value = typ[loc[2]:loc[3]]
	}
	return rest, value, true
}

// ExtractDefault splits an annotation into its bare type and the embedded
// default. seed is returned as the default when no extractor matches.
func ExtractDefault(typ string, seed any) (string, any) {
	def := seed
	for _, e := range Extractors {
		var (
			v  any
			ok bool
		)
		if typ, v, ok = e.Apply(typ); ok {
			def = v
		}
	}
	return typ, def
}

// Column interprets one column. annotation is nil when the document gave
// the column no type.
func Column(name string, annotation *string) *modelspec.Column {
	typ := ""
	if annotation != nil {
		typ = *annotation
	}
	if typ == "" {
		typ = InferType(name)
	}

	var seed any
	if typ == modelspec.TypeBoolean {
		seed = true
	}

	typ, def := ExtractDefault(typ, seed)
	return &modelspec.Column{Name: name, Type: typ, Default: Coerce(typ, def)}
}

// Coerce converts an extracted default to the column type. Only integer and
// float columns are converted; nil stays nil.
func Coerce(typ string, v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch typ {
	case modelspec.TypeInteger:
		return ParseInt(s)
	case modelspec.TypeFloat:
		return ParseFloat(s)
	}
	return v
}
