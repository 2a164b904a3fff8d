package skema_test

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	sk "github.com/reoring/skema"
)

func TestParseJSON_Person(t *testing.T) {
	ctx := context.Background()
	v, err := sk.ParseJSON(ctx, personSchema(), []byte(`{"name":"Al","age":30,"extra":true}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]any{"name": "Al", "age": float64(30)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value %#v", v)
	}

	_, err = sk.ParseJSON(ctx, personSchema(), []byte(`{"name":""}`))
	iss, ok := sk.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Message != "String shorter than 1" {
		t.Fatalf("unexpected err %v", err)
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	ctx := context.Background()
	for _, in := range []string{``, `{"name":`, `{"name":"a"} trailing`, `[1 2]`, `{"a" 1}`, `{"a":1,}`, `[1,]`, `{"a":1 "b":2}`} {
		_, err := sk.ParseJSON(ctx, personSchema(), []byte(in))
		iss, ok := sk.AsIssues(err)
		if !ok || len(iss) != 1 || iss[0].Code != sk.CodeParseError {
			t.Fatalf("%q: expected parse_error, got %v", in, err)
		}
		if !strings.HasPrefix(iss[0].Message, "Parse error") {
			t.Fatalf("%q: unexpected message %q", in, iss[0].Message)
		}
	}
}

func TestParseJSONReader_Malformed(t *testing.T) {
	ctx := context.Background()
	for _, in := range []string{`[1 2]`, `{"a" 1}`, `{"a":1,}`} {
		_, err := sk.ParseJSONReader(ctx, sk.Any(), strings.NewReader(in))
		iss, ok := sk.AsIssues(err)
		if !ok || len(iss) != 1 || iss[0].Code != sk.CodeParseError {
			t.Fatalf("%q: expected parse_error, got %v", in, err)
		}
	}
	if _, err := sk.DecodeJSON([]byte(`{"a":1,}`)); err == nil {
		t.Fatal("DecodeJSON accepted a trailing comma")
	}
}

func TestParseJSON_DuplicateKeys(t *testing.T) {
	ctx := context.Background()
	data := []byte(`{"name":"a","name":"b"}`)

	v, err := sk.ParseJSON(ctx, personSchema(), data)
	if err != nil {
		t.Fatalf("duplicates are ignored by default: %v", err)
	}
	if v.(map[string]any)["name"] != "b" {
		t.Fatalf("last duplicate should win: %#v", v)
	}

	_, err = sk.ParseJSON(ctx, personSchema(), data, sk.ParseOpt{Strictness: sk.Strictness{OnDuplicateKey: sk.Error}})
	iss, ok := sk.AsIssues(err)
	if !ok || iss[0].Code != sk.CodeDuplicateKey {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
	if iss[0].Message != "Duplicate key: name" || iss[0].Pointer() != "/name" {
		t.Fatalf("unexpected issue %+v", iss[0])
	}

	if _, err := sk.ParseJSON(ctx, personSchema(), data, sk.ParseOpt{Strictness: sk.Strictness{OnDuplicateKey: sk.Warn}}); err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
}

func TestParseJSON_Limits(t *testing.T) {
	ctx := context.Background()
	deep := []byte(`{"name":"a","age":1,"x":{"y":{"z":1}}}`)
	_, err := sk.ParseJSON(ctx, personSchema(), deep, sk.ParseOpt{MaxDepth: 2})
	iss, ok := sk.AsIssues(err)
	if !ok || iss[0].Code != sk.CodeParseError || iss[0].Pointer() != "/x/y" {
		t.Fatalf("expected depth error at /x/y, got %v", err)
	}

	_, err = sk.ParseJSON(ctx, personSchema(), []byte(`{"name":"abcdefgh"}`), sk.ParseOpt{MaxBytes: 8})
	iss, ok = sk.AsIssues(err)
	if !ok || iss[0].Code != sk.CodeTruncated {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestParseJSONReader(t *testing.T) {
	ctx := context.Background()
	v, err := sk.ParseJSONReader(ctx, sk.Array(sk.Number()), strings.NewReader(`[1, 2.5, 3]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(v, []any{float64(1), 2.5, float64(3)}) {
		t.Fatalf("unexpected %#v", v)
	}

	big := `{"name":"` + strings.Repeat("x", 2048) + `"}`
	_, err = sk.ParseJSONReader(ctx, personSchema(), strings.NewReader(big), sk.ParseOpt{MaxBytes: 64})
	iss, ok := sk.AsIssues(err)
	if !ok || iss[0].Code != sk.CodeTruncated {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestParseJSON_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sk.ParseJSON(ctx, personSchema(), []byte(`{"name":"a"}`))
	iss, ok := sk.AsIssues(err)
	if !ok || iss[0].Code != sk.CodeParseError {
		t.Fatalf("expected cancellation issue, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	v, err := sk.DecodeJSON([]byte(`{"a":[1,{"b":null}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	res := sk.Object().
		AddProp("a", sk.Array(sk.Union(sk.Number(), sk.Object().AddProp("b", sk.Null()).Build()))).
		Build().
		Validate(v)
	if !res.OK() {
		t.Fatalf("decoded tree should validate: %v", res.Issues)
	}
}

func TestParseYAML(t *testing.T) {
	ctx := context.Background()
	data := []byte("name: Al\nage: 30\n")
	v, err := sk.ParseYAML(ctx, personSchema(), data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(v, map[string]any{"name": "Al", "age": float64(30)}) {
		t.Fatalf("unexpected %#v", v)
	}

	_, err = sk.ParseYAML(ctx, personSchema(), []byte("age: -1\n"))
	iss, ok := sk.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected both issues, got %v", err)
	}
	if iss[0].Message != "Missing required property: name" || iss[1].Message != "Number less than 0" {
		t.Fatalf("unexpected issues %v", iss)
	}
}

func TestParseYAML_Normalization(t *testing.T) {
	v, err := sk.DecodeYAML([]byte("when: 2024-01-02T03:04:05Z\n1: one\nlist:\n  - 1: x\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(map[string]any)
	if m["when"] != "2024-01-02T03:04:05Z" {
		t.Fatalf("timestamps become strings: %#v", m["when"])
	}
	if m["1"] != "one" {
		t.Fatalf("keys become strings: %#v", m)
	}
	inner := m["list"].([]any)[0].(map[string]any)
	if inner["1"] != "x" {
		t.Fatalf("nested keys become strings: %#v", inner)
	}
}

func TestParseYAML_Errors(t *testing.T) {
	ctx := context.Background()
	for _, in := range []string{"", "a: [1, 2"} {
		_, err := sk.ParseYAML(ctx, sk.Any(), []byte(in))
		iss, ok := sk.AsIssues(err)
		if !ok || iss[0].Code != sk.CodeParseError {
			t.Fatalf("%q: expected parse_error, got %v", in, err)
		}
	}

	_, err := sk.ParseYAML(ctx, sk.Any(), []byte("a:\n  b:\n    c: 1\n"), sk.ParseOpt{MaxDepth: 2})
	iss, ok := sk.AsIssues(err)
	if !ok || iss[0].Pointer() != "/a/b" {
		t.Fatalf("expected depth error at /a/b, got %v", err)
	}
}

type recordingObserver struct {
	names []string
	oks   []bool
}

func (r *recordingObserver) ObserveValidation(name string, res sk.Result, _ time.Duration) {
	r.names = append(r.names, name)
	r.oks = append(r.oks, res.OK())
}

func TestParseOpt_NameReachesObserver(t *testing.T) {
	obs := &recordingObserver{}
	v := sk.NewValidator(sk.WithObserver(obs))
	opt := sk.ParseOpt{Name: "person", Validator: v}
	_, _ = sk.ParseJSON(context.Background(), personSchema(), []byte(`{"name":"a"}`), opt)
	_, _ = sk.ParseYAML(context.Background(), personSchema(), []byte(`{}`), opt)
	if !reflect.DeepEqual(obs.names, []string{"person", "person"}) || !reflect.DeepEqual(obs.oks, []bool{true, false}) {
		t.Fatalf("unexpected observations %v %v", obs.names, obs.oks)
	}
}
