package skema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	eng "github.com/reoring/skema/internal/engine"
)

// ParseJSON decodes data, enforcing opts, and validates the result against
// s. Decoding problems and validation failures are both returned as Issues.
func ParseJSON(ctx context.Context, s *Schema, data []byte, opts ...ParseOpt) (any, error) {
	return ValidateJSON(ctx, s, data, opts...).unwrap()
}

// ValidateJSON is ParseJSON returning the full Result.
func ValidateJSON(ctx context.Context, s *Schema, data []byte, opts ...ParseOpt) Result {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return Result{Issues: opt.validator().inputIssue(CodeTruncated, nil)}
	}
	if !json.Valid(data) {
		return Result{Issues: opt.validator().syntaxIssue(data)}
	}
	return validateSource(ctx, s, eng.NewJSONBytes(data), opt)
}

// ParseJSONReader reads JSON from r and parses it like ParseJSON. When
// MaxBytes is set, reading stops once the limit is passed.
func ParseJSONReader(ctx context.Context, s *Schema, r io.Reader, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, opt.validator().inputIssue(CodeParseError, nil, "detail", err.Error())
	}
	return ValidateJSON(ctx, s, buf.Bytes(), opt).unwrap()
}

// DecodeJSON decodes data into a dynamic value without validating it.
// Objects become map[string]any, arrays []any and numbers json.Number.
func DecodeJSON(data []byte, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, opt.validator().inputIssue(CodeTruncated, nil)
	}
	if !json.Valid(data) {
		return nil, opt.validator().syntaxIssue(data)
	}
	return decodeSource(eng.NewJSONBytes(data), opt)
}

func validateSource(ctx context.Context, s *Schema, src eng.TokenSource, opt ParseOpt) Result {
	v, err := decodeSource(src, opt)
	if err != nil {
		iss, _ := AsIssues(err)
		return Result{Issues: iss}
	}
	if err := ctx.Err(); err != nil {
		return Result{Issues: opt.validator().inputIssue(CodeParseError, nil, "detail", err.Error())}
	}
	return opt.validator().ValidateNamed(opt.Name, s, v)
}

func decodeSource(src eng.TokenSource, opt ParseOpt) (any, error) {
	val := opt.validator()
	enforced := eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			val.logger.Warn("duplicate key in input", "schema", opt.Name, "key", si.Detail, "path", Issue{Path: si.Path}.Pointer())
		},
	})
	v, err := eng.DecodeAny(enforced)
	if err != nil {
		return nil, val.decodeIssues(err)
	}
	return v, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

// decodeIssues maps engine and decoder errors to Issues.
func (v *Validator) decodeIssues(err error) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		switch ie.Code {
		case CodeDuplicateKey:
			return v.inputIssue(CodeDuplicateKey, ie.Path, "key", ie.Detail)
		case CodeTruncated:
			return v.inputIssue(CodeTruncated, ie.Path)
		default:
			return v.inputIssue(CodeParseError, ie.Path, "detail", ie.Detail)
		}
	}
	return v.inputIssue(CodeParseError, nil, "detail", err.Error())
}

// syntaxIssue reports malformed JSON. The token decoder does not check
// separators, so syntax is checked up front.
func (v *Validator) syntaxIssue(data []byte) Issues {
	var scratch any
	detail := "invalid JSON syntax"
	if err := json.Unmarshal(data, &scratch); err != nil {
		detail = err.Error()
	}
	return v.inputIssue(CodeParseError, nil, "detail", detail)
}

func (v *Validator) inputIssue(code string, path []string, kv ...string) Issues {
	return Issues{v.issue(code, path, kv...)}
}

func (r Result) unwrap() (any, error) {
	if !r.OK() {
		return nil, r.Issues
	}
	return r.Value, nil
}

// ParseYAML decodes the first YAML document in data and validates it
// against s. Mapping keys are normalized to strings and timestamps to
// RFC 3339 strings so YAML and JSON inputs validate alike.
func ParseYAML(ctx context.Context, s *Schema, data []byte, opts ...ParseOpt) (any, error) {
	return ValidateYAML(ctx, s, data, opts...).unwrap()
}

// ValidateYAML is ParseYAML returning the full Result.
func ValidateYAML(ctx context.Context, s *Schema, data []byte, opts ...ParseOpt) Result {
	opt := lastOpt(opts)
	val := opt.validator()
	v, err := DecodeYAML(data, opt)
	if err != nil {
		iss, _ := AsIssues(err)
		return Result{Issues: iss}
	}
	if err := ctx.Err(); err != nil {
		return Result{Issues: val.inputIssue(CodeParseError, nil, "detail", err.Error())}
	}
	return val.ValidateNamed(opt.Name, s, v)
}

// DecodeYAML decodes the first YAML document in data into a dynamic value.
func DecodeYAML(data []byte, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	val := opt.validator()
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, val.inputIssue(CodeTruncated, nil)
	}
	var node any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, val.inputIssue(CodeParseError, nil, "detail", err.Error())
	}
	if opt.MaxDepth > 0 {
		if p, ok := exceedsDepth(node, opt.MaxDepth, 0, nil); ok {
			return nil, val.inputIssue(CodeParseError, p, "detail", "max depth "+strconv.Itoa(opt.MaxDepth)+" exceeded")
		}
	}
	return normalizeYAML(node), nil
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// exceedsDepth reports the path of the first container nested deeper than
// limit.
func exceedsDepth(v any, limit, depth int, path []string) ([]string, bool) {
	switch t := v.(type) {
	case map[string]any:
		depth++
		if depth > limit {
			return path, true
		}
		for k, e := range t {
			if p, ok := exceedsDepth(e, limit, depth, childPath(path, k)); ok {
				return p, true
			}
		}
	case map[any]any:
		depth++
		if depth > limit {
			return path, true
		}
		for k, e := range t {
			if p, ok := exceedsDepth(e, limit, depth, childPath(path, fmt.Sprint(k))); ok {
				return p, true
			}
		}
	case []any:
		depth++
		if depth > limit {
			return path, true
		}
		for i, e := range t {
			if p, ok := exceedsDepth(e, limit, depth, childPath(path, strconv.Itoa(i))); ok {
				return p, true
			}
		}
	}
	return nil, false
}
