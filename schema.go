package skema

import (
	"regexp"
)

// Kind is the variant tag of a Schema.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindNull
	KindAny
	KindLiteral
	KindObject
	KindArray
	KindUnion
	KindInstanceOf
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindAny:
		return "any"
	case KindLiteral:
		return "literal"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindUnion:
		return "union"
	case KindInstanceOf:
		return "instanceOf"
	default:
		return "unknown"
	}
}

// Schema is an immutable, recursively composable schema value. Modifiers
// return new schemas and never touch the receiver, so a *Schema may be shared
// by any number of parents and validated from many goroutines at once.
type Schema struct {
	v        variant
	optional bool
}

// variant is the closed set of schema kinds. Only the types in this file
// implement it; the engine switches over them exhaustively.
type variant interface {
	kind() Kind
}

type stringVariant struct {
	minLen *int
	maxLen *int
	format *Format
	coerce bool
}

type numberVariant struct {
	min    *float64
	max    *float64
	coerce bool
}

type boolVariant struct {
	coerce bool
}

type nullVariant struct{}

type anyVariant struct{}

type literalVariant struct {
	value any
}

type objectVariant struct {
	props []property
}

type property struct {
	key    string
	schema *Schema
}

type arrayVariant struct {
	item *Schema
}

type unionVariant struct {
	alts []*Schema
}

type instanceOfVariant struct {
	ctor any
	name string
}

func (stringVariant) kind() Kind     { return KindString }
func (numberVariant) kind() Kind     { return KindNumber }
func (boolVariant) kind() Kind       { return KindBoolean }
func (nullVariant) kind() Kind       { return KindNull }
func (anyVariant) kind() Kind        { return KindAny }
func (literalVariant) kind() Kind    { return KindLiteral }
func (objectVariant) kind() Kind     { return KindObject }
func (arrayVariant) kind() Kind      { return KindArray }
func (unionVariant) kind() Kind      { return KindUnion }
func (instanceOfVariant) kind() Kind { return KindInstanceOf }

// ---- constructors ----

// String accepts strings.
func String() *Schema { return &Schema{v: stringVariant{}} }

// Number accepts numbers.
func Number() *Schema { return &Schema{v: numberVariant{}} }

// Boolean accepts booleans.
func Boolean() *Schema { return &Schema{v: boolVariant{}} }

// Any accepts every value and passes it through unchanged.
func Any() *Schema { return &Schema{v: anyVariant{}} }

// Null accepts only the null sentinel.
func Null() *Schema { return &Schema{v: nullVariant{}} }

// Literal accepts values strictly equal to v. Only primitive literals are
// compared by value; containers compare by identity.
func Literal(v any) *Schema { return &Schema{v: literalVariant{value: v}} }

// Array applies item to every element of an array-like value.
func Array(item *Schema) *Schema {
	if item == nil {
		item = Any()
	}
	return &Schema{v: arrayVariant{item: item}}
}

// Union tries each alternative in order; the first success wins.
func Union(schemas ...*Schema) *Schema {
	alts := make([]*Schema, 0, len(schemas))
	for _, s := range schemas {
		if s != nil {
			alts = append(alts, s)
		}
	}
	return &Schema{v: unionVariant{alts: alts}}
}

// InstanceOf delegates to the host identity predicate with the opaque ctor
// handle. name is used in messages and in the structural mirror.
func InstanceOf(ctor any, name string) *Schema {
	return &Schema{v: instanceOfVariant{ctor: ctor, name: name}}
}

// ---- accessors ----

// Kind reports the schema variant.
func (s *Schema) Kind() Kind { return s.v.kind() }

// IsOptional reports whether absent and null inputs are accepted.
func (s *Schema) IsOptional() bool { return s.optional }

// Props returns the property names of an object schema in declaration order.
func (s *Schema) Props() []string {
	ov, ok := s.v.(objectVariant)
	if !ok {
		return nil
	}
	out := make([]string, len(ov.props))
	for i, p := range ov.props {
		out[i] = p.key
	}
	return out
}

// Prop returns the child schema declared under key on an object schema.
func (s *Schema) Prop(key string) (*Schema, bool) {
	ov, ok := s.v.(objectVariant)
	if !ok {
		return nil, false
	}
	for _, p := range ov.props {
		if p.key == key {
			return p.schema, true
		}
	}
	return nil, false
}

// PatternErr returns the compile error of a Regex format, if any. Such a
// schema never matches.
func (s *Schema) PatternErr() error {
	if sv, ok := s.v.(stringVariant); ok && sv.format != nil {
		return sv.format.err
	}
	return nil
}

// ---- modifiers ----

// with returns a shallow copy; variant values are copied by value and share
// their immutable children.
func (s *Schema) with(fn func(c *Schema)) *Schema {
	c := *s
	fn(&c)
	return &c
}

// Optional accepts absent and null inputs without further checks. It applies
// to every variant.
func (s *Schema) Optional() *Schema {
	return s.with(func(c *Schema) { c.optional = true })
}

// Coerce enables input coercion for String, Number and Boolean schemas.
func (s *Schema) Coerce() *Schema {
	return s.with(func(c *Schema) {
		switch v := c.v.(type) {
		case stringVariant:
			v.coerce = true
			c.v = v
		case numberVariant:
			v.coerce = true
			c.v = v
		case boolVariant:
			v.coerce = true
			c.v = v
		}
	})
}

// MinLength sets the minimum string length (String only). Length is
// counted in Unicode code points, not bytes.
func (s *Schema) MinLength(n int) *Schema {
	return s.withString(func(v *stringVariant) { v.minLen = ptr(max(n, 0)) })
}

// MaxLength sets the maximum string length (String only), counted in code
// points like MinLength.
func (s *Schema) MaxLength(n int) *Schema {
	return s.withString(func(v *stringVariant) { v.maxLen = ptr(max(n, 0)) })
}

// Min sets the inclusive lower bound (Number only).
func (s *Schema) Min(n float64) *Schema {
	return s.withNumber(func(v *numberVariant) { v.min = ptr(n) })
}

// Max sets the inclusive upper bound (Number only).
func (s *Schema) Max(n float64) *Schema {
	return s.withNumber(func(v *numberVariant) { v.max = ptr(n) })
}

// UUID requires a v4-shaped UUID (String only). Like every format modifier it
// replaces any previously set format.
func (s *Schema) UUID() *Schema { return s.withFormat(&Format{Kind: FormatUUID}) }

// Email requires a local@domain.tld shaped address (String only).
func (s *Schema) Email() *Schema { return s.withFormat(&Format{Kind: FormatEmail}) }

// Phone requires an optional leading '+' followed by 7 to 15 digits (String
// only).
func (s *Schema) Phone() *Schema { return s.withFormat(&Format{Kind: FormatPhone}) }

// Regex requires a match against pattern (String only). An invalid pattern
// is not reported here; the schema fails closed and PatternErr exposes the
// cause.
func (s *Schema) Regex(pattern string) *Schema {
	f := &Format{Kind: FormatRegex, Pattern: pattern}
	f.re, f.err = regexp.Compile(pattern)
	return s.withFormat(f)
}

// Domain requires a lowercase hostname, optionally with an http(s) scheme
// (String only).
func (s *Schema) Domain(requireProtocol bool) *Schema {
	return s.withFormat(&Format{Kind: FormatDomain, RequireProtocol: requireProtocol})
}

func (s *Schema) withString(fn func(v *stringVariant)) *Schema {
	return s.with(func(c *Schema) {
		if v, ok := c.v.(stringVariant); ok {
			fn(&v)
			c.v = v
		}
	})
}

func (s *Schema) withNumber(fn func(v *numberVariant)) *Schema {
	return s.with(func(c *Schema) {
		if v, ok := c.v.(numberVariant); ok {
			fn(&v)
			c.v = v
		}
	})
}

func (s *Schema) withFormat(f *Format) *Schema {
	return s.withString(func(v *stringVariant) { v.format = f })
}

func ptr[T any](v T) *T { return &v }
