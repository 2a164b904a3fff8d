package skema

import (
	js "github.com/reoring/skema/jsonschema"
)

// JSONSchema projects the schema into its structural mirror. The mirror is
// rebuilt from the schema on every call, so it always reflects every
// modifier applied so far.
func (s *Schema) JSONSchema() *js.Schema {
	switch sv := s.v.(type) {
	case stringVariant:
		out := &js.Schema{Type: "string", MinLength: clonePtr(sv.minLen), MaxLength: clonePtr(sv.maxLen)}
		if sv.format != nil {
			out.Format = sv.format.Name()
		}
		return out
	case numberVariant:
		return &js.Schema{Type: "number", Minimum: clonePtr(sv.min), Maximum: clonePtr(sv.max)}
	case boolVariant:
		return &js.Schema{Type: "boolean"}
	case nullVariant:
		return &js.Schema{Type: "null"}
	case anyVariant:
		return &js.Schema{}
	case literalVariant:
		return &js.Schema{Const: sv.value, HasConst: true}
	case objectVariant:
		out := &js.Schema{Type: "object", Properties: &js.Properties{}}
		for _, p := range sv.props {
			out.Properties.Set(p.key, p.schema.JSONSchema())
			if !p.schema.optional {
				out.Required = append(out.Required, p.key)
			}
		}
		return out
	case arrayVariant:
		return &js.Schema{Type: "array", Items: sv.item.JSONSchema()}
	case unionVariant:
		out := &js.Schema{AnyOf: make([]*js.Schema, 0, len(sv.alts))}
		for _, alt := range sv.alts {
			out.AnyOf = append(out.AnyOf, alt.JSONSchema())
		}
		return out
	case instanceOfVariant:
		return &js.Schema{Type: "object", InstanceOf: sv.name}
	default:
		panic("skema: unhandled schema variant in JSONSchema")
	}
}

// clonePtr keeps mirror edits from reaching the schema's own bounds.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return ptr(*p)
}
