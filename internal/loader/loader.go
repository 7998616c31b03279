// Package loader turns normalized model text into an ordered nested mapping
// using the YAML parser. It does not interpret column contents.
package loader

import (
	"bytes"
	"errors"
	"io"

	"github.com/koustreak/ezschema/internal/errs"
	"go.yaml.in/yaml/v3"
)

// Shape is the structural kind of a model's value.
type Shape int

const (
	ShapeNull Shape = iota
	ShapeMapping
	ShapeSequence
	ShapeScalar
)

func (s Shape) String() string {
	switch s {
	case ShapeMapping:
		return "mapping"
	case ShapeSequence:
		return "sequence"
	case ShapeScalar:
		return "scalar"
	default:
		return "null"
	}
}

// RawColumn is a column name and its unparsed annotation. Annotation is nil
// when the document gave the column no value.
type RawColumn struct {
	Name       string
	Annotation *string
	Line       int
}

// RawModel is one top-level entry of the document.
type RawModel struct {
	Name    string
	Shape   Shape
	Columns []RawColumn // set only when Shape is ShapeMapping
	Line    int
}

// Document is the loaded, uninterpreted document in declaration order.
type Document struct {
	Models []RawModel
}

// Load parses normalized text.
func Load(text string) (*Document, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewBufferString(text))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, errs.Wrap(errs.ErrKindParseFailed, "could not parse models document", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return &Document{}, nil
		}
		node = node.Content[0]
	}
	if isNull(node) {
		return &Document{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errs.Newf(errs.ErrKindShapeMismatch,
			"models document must be a mapping of model names, got %s at line %d", shapeOf(node), node.Line)
	}

	doc := &Document{}
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], resolve(node.Content[i+1])
		if seen[key.Value] {
			return nil, errs.Newf(errs.ErrKindParseFailed, "model %q is defined twice (line %d)", key.Value, key.Line)
		}
		seen[key.Value] = true

		m := RawModel{Name: key.Value, Shape: shapeOf(val), Line: key.Line}
		if m.Shape == ShapeMapping {
			cols, err := loadColumns(m.Name, val)
			if err != nil {
				return nil, err
			}
			m.Columns = cols
		}
		doc.Models = append(doc.Models, m)
	}
	return doc, nil
}

func loadColumns(model string, node *yaml.Node) ([]RawColumn, error) {
	cols := make([]RawColumn, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], resolve(node.Content[i+1])
		if seen[key.Value] {
			return nil, errs.Newf(errs.ErrKindParseFailed,
				"column %q of model %q is defined twice (line %d)", key.Value, model, key.Line)
		}
		seen[key.Value] = true

		col := RawColumn{Name: key.Value, Line: key.Line}
		switch {
		case isNull(val):
		case val.Kind == yaml.ScalarNode && val.ShortTag() == "!!str":
			v := val.Value
			col.Annotation = &v
		default:
			return nil, errs.Newf(errs.ErrKindInvalidInput,
				"column %q of model %q must be a type name, got %q at line %d", key.Value, model, val.Value, val.Line)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// resolve follows an alias to the node it names.
func resolve(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func shapeOf(n *yaml.Node) Shape {
	switch {
	case n.Kind == yaml.MappingNode:
		return ShapeMapping
	case n.Kind == yaml.SequenceNode:
		return ShapeSequence
	case isNull(n):
		return ShapeNull
	default:
		return ShapeScalar
	}
}
