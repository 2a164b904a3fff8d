package engine

import (
	"errors"
	"io"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"
)

func TestDecodeAny_Tree(t *testing.T) {
	v, err := DecodeAny(NewJSONBytes([]byte(`{"a":{"b":[1,"x",true,null]},"c":"d"}`)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"a": map[string]any{"b": []any{json.Number("1"), "x", true, nil}},
		"c": "d",
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected tree\n got=%#v\nwant=%#v", v, want)
	}
}

func TestDecodeAny_EmptyContainers(t *testing.T) {
	v, err := DecodeAny(NewJSONBytes([]byte(`{"a":[],"b":{}}`)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(map[string]any)
	if arr, ok := m["a"].([]any); !ok || len(arr) != 0 {
		t.Fatalf("expected empty array, got %#v", m["a"])
	}
	if obj, ok := m["b"].(map[string]any); !ok || len(obj) != 0 {
		t.Fatalf("expected empty object, got %#v", m["b"])
	}
}

func TestDecodeAny_Errors(t *testing.T) {
	if _, err := DecodeAny(NewJSONBytes(nil)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF for empty input, got %v", err)
	}
	if _, err := DecodeAny(NewJSONBytes([]byte(`1 2`))); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestEnforce_DuplicateKeyError(t *testing.T) {
	src := WrapWithEnforcement(NewJSONBytes([]byte(`{"a":{"k":1,"k":2}}`)), EnforceOptions{OnDuplicate: DupError})
	_, err := DecodeAny(src)
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "duplicate_key" || !reflect.DeepEqual(ie.Path, []string{"a", "k"}) {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}
}

func TestEnforce_DuplicateKeyWarn(t *testing.T) {
	var got []SimpleIssue
	src := WrapWithEnforcement(NewJSONBytes([]byte(`[{"k":1,"k":2}]`)), EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { got = append(got, si) },
	})
	v, err := DecodeAny(src)
	if err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0].Path, []string{"0", "k"}) {
		t.Fatalf("unexpected sink issues: %+v", got)
	}
	if v.([]any)[0].(map[string]any)["k"] != json.Number("2") {
		t.Fatalf("last duplicate should win: %#v", v)
	}
}

func TestEnforce_MaxDepth(t *testing.T) {
	src := WrapWithEnforcement(NewJSONBytes([]byte(`{"a":[[1]]}`)), EnforceOptions{MaxDepth: 2})
	_, err := DecodeAny(src)
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != "parse_error" {
		t.Fatalf("expected depth error, got %v", err)
	}
	if !reflect.DeepEqual(ie.Path, []string{"a", "0"}) {
		t.Fatalf("unexpected path: %v", ie.Path)
	}

	ok := WrapWithEnforcement(NewJSONBytes([]byte(`{"a":[1]}`)), EnforceOptions{MaxDepth: 2})
	if _, err := DecodeAny(ok); err != nil {
		t.Fatalf("depth 2 should pass: %v", err)
	}
}
