// Package modelspec holds the compiled model specification: the normalized
// structure of models, columns, types and defaults that is handed to the
// migration engine.
package modelspec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Primitive type names produced by inference. Any other token a document
// provides is passed through unchanged.
const (
	TypeString   = "string"
	TypeText     = "text"
	TypeInteger  = "integer"
	TypeBoolean  = "boolean"
	TypeDate     = "date"
	TypeDateTime = "datetime"
	TypeFloat    = "float"
)

// Column is the final description of one column.
//
// Default is nil, a string, an int64, a float64 or the boolean true.
type Column struct {
	Name    string
	Type    string
	Default any
}

// Model is a named entity and its columns in document order.
type Model struct {
	Name    string
	Columns []*Column
}

// Column returns the column called name.
func (m *Model) Column(name string) (*Column, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Spec maps model names to their columns. Models keep the order in which the
// document declared them.
type Spec struct {
	Models []*Model
}

// New returns an empty spec.
func New() *Spec {
	return &Spec{Models: []*Model{}}
}

// Model returns the model called name.
func (s *Spec) Model(name string) (*Model, bool) {
	if s == nil {
		return nil, false
	}
	for _, m := range s.Models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Len reports the number of models.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Models)
}

// MarshalJSON renders the spec as an object keyed by model name, preserving
// model and column order:
//
//	{"Book": {"title": {"type": "string", "default": null}}}
func (s *Spec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range s.Models {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, m.Name); err != nil {
			return nil, err
		}
		b, err := m.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON renders the model's columns as an ordered object.
func (m *Model) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, c.Name); err != nil {
			return nil, err
		}
		b, err := json.Marshal(struct {
			Type    string `json:"type"`
			Default any    `json:"default"`
		}{c.Type, c.Default})
		if err != nil {
			return nil, fmt.Errorf("column %s.%s: %w", m.Name, c.Name, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// MarshalYAML renders the spec as an ordered YAML mapping with the same
// shape as MarshalJSON.
func (s *Spec) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, m := range s.Models {
		cols := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range m.Columns {
			col := &yaml.Node{Kind: yaml.MappingNode}
			col.Content = append(col.Content, str("type"), str(c.Type), str("default"))
			def := &yaml.Node{}
			if err := def.Encode(c.Default); err != nil {
				return nil, fmt.Errorf("column %s.%s: %w", m.Name, c.Name, err)
			}
			col.Content = append(col.Content, def)
			cols.Content = append(cols.Content, str(c.Name), col)
		}
		root.Content = append(root.Content, str(m.Name), cols)
	}
	return root, nil
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
