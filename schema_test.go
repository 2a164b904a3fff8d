package skema_test

import (
	"reflect"
	"strings"
	"testing"

	sk "github.com/reoring/skema"
)

func TestModifiers_DoNotMutateReceiver(t *testing.T) {
	base := sk.String()
	_ = base.MinLength(3)
	_ = base.Optional()
	_ = base.UUID()
	_ = base.Coerce()

	if !base.Validate("").OK() {
		t.Fatalf("base must still accept the empty string")
	}
	if base.Validate(nil).OK() {
		t.Fatalf("base must still reject null")
	}
	if !base.Validate("not-a-uuid").OK() {
		t.Fatalf("base must not have gained a format")
	}
	if got := base.JSONSchema(); got.MinLength != nil || got.Format != "" {
		t.Fatalf("base mirror changed: %+v", got)
	}
}

func TestModifiers_WrongVariantIsNoop(t *testing.T) {
	n := sk.Number().MinLength(5).UUID().Regex("x")
	if !n.Validate(1).OK() {
		t.Fatalf("string-only modifiers must not affect numbers")
	}
	s := sk.String().Min(10)
	if !s.Validate("a").OK() {
		t.Fatalf("number-only modifiers must not affect strings")
	}
}

func TestModifiers_NegativeLengthClamped(t *testing.T) {
	s := sk.String().MaxLength(-3)
	if !s.Validate("").OK() {
		t.Fatalf("clamped max length should accept empty input")
	}
	if s.Validate("a").OK() {
		t.Fatalf("clamped max length should be zero")
	}
	if got := *s.JSONSchema().MaxLength; got != 0 {
		t.Fatalf("mirror maxLength = %d", got)
	}
}

func TestFormats_LastOneWins(t *testing.T) {
	s := sk.String().Email().UUID()
	if s.Validate("a@b.co").OK() {
		t.Fatalf("email must have been replaced by uuid")
	}
	if !s.Validate("123e4567-e89b-42d3-a456-426614174000").OK() {
		t.Fatalf("uuid should match")
	}
	if s.JSONSchema().Format != "uuid" {
		t.Fatalf("unexpected mirror format %q", s.JSONSchema().Format)
	}
}

func TestObjectBuilder_BuildSeals(t *testing.T) {
	b := sk.Object().AddProp("a", sk.String())
	first := b.Build()
	b.AddProp("b", sk.Number())
	second := b.Build()

	if got := first.Props(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("sealed schema must not see later props: %v", got)
	}
	if got := second.Props(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected props %v", got)
	}
	if !first.Validate(map[string]any{"a": "x"}).OK() {
		t.Fatalf("first schema should not require b")
	}
	if second.Validate(map[string]any{"a": "x"}).OK() {
		t.Fatalf("second schema should require b")
	}
}

func TestObjectBuilder_ReplaceKeepsPosition(t *testing.T) {
	s := sk.Object().
		AddProp("a", sk.String()).
		AddProp("b", sk.String()).
		AddProp("a", sk.Number()).
		Build()
	if got := s.Props(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected order %v", got)
	}
	child, ok := s.Prop("a")
	if !ok || child.Kind() != sk.KindNumber {
		t.Fatalf("replacement not applied: %v %v", child, ok)
	}
	iss := mustIssues(t, s.Validate(map[string]any{"a": "x", "b": 1}))
	if len(iss) != 2 || iss[0].Path[0] != "a" || iss[1].Path[0] != "b" {
		t.Fatalf("issues must follow declaration order: %v", iss)
	}
}

func TestObjectBuilder_NilChildIsAny(t *testing.T) {
	s := sk.Object().AddProp("x", nil).Build()
	child, _ := s.Prop("x")
	if child.Kind() != sk.KindAny {
		t.Fatalf("nil child should default to Any, got %v", child.Kind())
	}
}

func TestExtend(t *testing.T) {
	base := personSchema()
	ext := sk.Extend(base).AddProp("email", sk.String().Email()).Build()
	if got := ext.Props(); !reflect.DeepEqual(got, []string{"name", "age", "email"}) {
		t.Fatalf("unexpected props %v", got)
	}
	if got := base.Props(); len(got) != 2 {
		t.Fatalf("base must be unchanged: %v", got)
	}
	if got := sk.Extend(sk.String()).Build().Props(); len(got) != 0 {
		t.Fatalf("non-object base yields an empty object: %v", got)
	}
}

func TestKinds(t *testing.T) {
	cases := map[sk.Kind]*sk.Schema{
		sk.KindString:     sk.String(),
		sk.KindNumber:     sk.Number(),
		sk.KindBoolean:    sk.Boolean(),
		sk.KindNull:       sk.Null(),
		sk.KindAny:        sk.Any(),
		sk.KindLiteral:    sk.Literal(1),
		sk.KindObject:     sk.Object().Build(),
		sk.KindArray:      sk.Array(nil),
		sk.KindUnion:      sk.Union(),
		sk.KindInstanceOf: sk.InstanceOf(nil, "X"),
	}
	for want, s := range cases {
		if s.Kind() != want {
			t.Fatalf("%v: got %v", want, s.Kind())
		}
		if s.Kind().String() == "" {
			t.Fatalf("%d has no name", want)
		}
	}
}

func TestFormats(t *testing.T) {
	cases := []struct {
		name   string
		schema *sk.Schema
		good   []string
		bad    []string
	}{
		{
			name:   "uuid",
			schema: sk.String().UUID(),
			good:   []string{"123e4567-e89b-42d3-a456-426614174000", "123E4567-E89B-42D3-B456-426614174000"},
			bad:    []string{"123e4567-e89b-42d3-c456-426614174000", "123e4567e89b42d3a456426614174000", "{123e4567-e89b-42d3-a456-426614174000}", "nope"},
		},
		{
			name:   "email",
			schema: sk.String().Email(),
			good:   []string{"a@b.co", "first.last@example.org", "ユーザー@例え.jp"},
			bad:    []string{"a@b", "a b@c.de", "@b.co", "a@@b.co", "a\u3000b@x.com", "a@x\u00a0y.com", "a\u0085b@x.com"},
		},
		{
			name:   "phone",
			schema: sk.String().Phone(),
			good:   []string{"+15551234567", "1234567"},
			bad:    []string{"123456", "+1234567890123456", "555-1234", "++1234567"},
		},
		{
			name:   "domain",
			schema: sk.String().Domain(false),
			good:   []string{"example.com", "sub.my-site.io"},
			bad:    []string{"Example.com", "https://example.com", "example", "example.toolongtld"},
		},
		{
			name:   "domain with protocol",
			schema: sk.String().Domain(true),
			good:   []string{"https://example.com", "http://a.b.org"},
			bad:    []string{"example.com", "ftp://example.com"},
		},
		{
			name:   "regex",
			schema: sk.String().Regex(`^[A-Z]{3}-\d+$`),
			good:   []string{"ABC-1", "XYZ-2024"},
			bad:    []string{"abc-1", "ABC-"},
		},
	}
	for _, c := range cases {
		for _, in := range c.good {
			if res := c.schema.Validate(in); !res.OK() {
				t.Fatalf("%s: %q should match: %v", c.name, in, res.Issues)
			}
		}
		for _, in := range c.bad {
			res := c.schema.Validate(in)
			if res.OK() {
				t.Fatalf("%s: %q should not match", c.name, in)
			}
			if res.Issues[0].Message != "Invalid format" || res.Issues[0].Code != sk.CodeInvalidFormat {
				t.Fatalf("%s: unexpected issue %+v", c.name, res.Issues[0])
			}
		}
	}
}

func TestRegex_InvalidPatternFailsClosed(t *testing.T) {
	s := sk.String().Regex("(")
	if s.PatternErr() == nil {
		t.Fatalf("expected pattern error")
	}
	for _, in := range []string{"", "(", "anything"} {
		if s.Validate(in).OK() {
			t.Fatalf("invalid pattern must never match %q", in)
		}
	}
	if sk.String().Regex("a").PatternErr() != nil {
		t.Fatalf("valid pattern reports no error")
	}
}

func TestFormatAfterLengthChecks(t *testing.T) {
	s := sk.String().MinLength(40).UUID()
	iss := mustIssues(t, s.Validate("short"))
	if !strings.HasPrefix(iss[0].Message, "String shorter than") {
		t.Fatalf("length is checked before format: %v", iss)
	}
}
