package jsonschema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Schema is a JSON-Schema-like structural description used for export.
// It is descriptive only; validation never reads it.
type Schema struct {
	// Core
	Type   string
	Format string

	// Const holds the literal value when HasConst is set (the literal may be
	// null, zero or false, so presence is tracked separately).
	Const    any
	HasConst bool

	// String
	MinLength *int
	MaxLength *int

	// Number
	Minimum *float64
	Maximum *float64

	// InstanceOf carries the display name of an instance-of check.
	InstanceOf string

	// Object
	Properties *Properties
	Required   []string

	// Array
	Items *Schema

	// Union
	AnyOf []*Schema
}

// Property is a single named entry of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties keeps object properties in declaration order.
type Properties struct {
	entries []Property
}

// Set inserts or replaces name. Replacement keeps the original position.
func (p *Properties) Set(name string, s *Schema) {
	for i := range p.entries {
		if p.entries[i].Name == name {
			p.entries[i].Schema = s
			return
		}
	}
	p.entries = append(p.entries, Property{Name: name, Schema: s})
}

// Get returns the schema stored under name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	for _, e := range p.entries {
		if e.Name == name {
			return e.Schema, true
		}
	}
	return nil, false
}

// Len reports the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns a copy of the properties in declaration order.
func (p *Properties) Entries() []Property {
	if p == nil {
		return nil
	}
	return append([]Property(nil), p.entries...)
}

// MarshalJSON writes properties as a JSON object preserving order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, e := range p.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, e.Name); err != nil {
				return nil, err
			}
			b, err := e.Schema.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON emits keys in a stable order: type, format, const, minLength,
// maxLength, minimum, maximum, instanceOf, properties, required, items, anyOf.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	w := &objectWriter{}
	w.buf.WriteByte('{')
	if s.Type != "" {
		w.field("type", s.Type)
	}
	if s.Format != "" {
		w.field("format", s.Format)
	}
	if s.HasConst {
		w.field("const", s.Const)
	}
	if s.MinLength != nil {
		w.field("minLength", *s.MinLength)
	}
	if s.MaxLength != nil {
		w.field("maxLength", *s.MaxLength)
	}
	if s.Minimum != nil {
		w.field("minimum", *s.Minimum)
	}
	if s.Maximum != nil {
		w.field("maximum", *s.Maximum)
	}
	if s.InstanceOf != "" {
		w.field("instanceOf", s.InstanceOf)
	}
	if s.Properties != nil {
		w.field("properties", s.Properties)
	}
	if len(s.Required) > 0 {
		w.field("required", s.Required)
	}
	if s.Items != nil {
		w.field("items", s.Items)
	}
	if s.AnyOf != nil {
		w.field("anyOf", s.AnyOf)
	}
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) field(key string, v any) {
	if w.err != nil {
		return
	}
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.n++
	if err := writeKey(&w.buf, key); err != nil {
		w.err = err
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(b)
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}
