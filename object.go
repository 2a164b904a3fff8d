package skema

// ObjectBuilder assembles an object schema incrementally. It is the only
// mutable piece of the model: AddProp edits the builder in place, and Build
// seals a snapshot into an immutable *Schema. Later AddProp calls never reach
// schemas that were already built.
//
// A builder is meant for a single goroutine during construction.
type ObjectBuilder struct {
	props []property
}

// Object starts an object schema with no properties.
func Object() *ObjectBuilder { return &ObjectBuilder{} }

// AddProp inserts or replaces the child schema for key. Replacing keeps the
// key's original declaration position.
func (b *ObjectBuilder) AddProp(key string, child *Schema) *ObjectBuilder {
	if child == nil {
		child = Any()
	}
	for i := range b.props {
		if b.props[i].key == key {
			b.props[i].schema = child
			return b
		}
	}
	b.props = append(b.props, property{key: key, schema: child})
	return b
}

// Prop is AddProp for chained construction.
func (b *ObjectBuilder) Prop(key string, child *Schema) *ObjectBuilder {
	return b.AddProp(key, child)
}

// Build seals the current properties into an immutable object schema.
func (b *ObjectBuilder) Build() *Schema {
	props := make([]property, len(b.props))
	copy(props, b.props)
	return &Schema{v: objectVariant{props: props}}
}

// Extend returns a builder seeded with the properties of an object schema so
// a sealed schema can be used as the base of another one. Non-object schemas
// yield an empty builder.
func Extend(s *Schema) *ObjectBuilder {
	b := &ObjectBuilder{}
	if ov, ok := s.v.(objectVariant); ok {
		b.props = append(b.props, ov.props...)
	}
	return b
}
