package skema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeRequired        = "required"
	CodeTooShort        = "too_short"
	CodeTooLong         = "too_long"
	CodeTooSmall        = "too_small"
	CodeTooBig          = "too_big"
	CodeInvalidFormat   = "invalid_format"
	CodeCoerceFailed    = "coerce_failed"
	CodeLiteralMismatch = "literal_mismatch"
	CodeInvalidInstance = "invalid_instance"
	CodeParseError      = "parse_error"
	CodeDuplicateKey    = "duplicate_key"
	CodeTruncated       = "truncated"
)

// Issue represents a single validation entry.
//
// Path lists the segments from the root to the failing node: property names
// for objects and decimal indices for arrays. It is nil for failures at the
// root.
type Issue struct {
	Message string            `json:"message"`
	Path    []string          `json:"path,omitempty"`
	Code    string            `json:"code,omitempty"`
	Params  map[string]string `json:"-"` // Structured message parameters (e.g. {"min": "1"}).
}

// Pointer renders Path as a JSON Pointer (for example: /items/2/price).
func (it Issue) Pointer() string {
	if len(it.Path) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range it.Path {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(seg))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. String shorter than 1 at /name
		fmt.Fprintf(b, "%s at %s", iss[i].Message, iss[i].Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

var (
	// ErrDuplicateSchema is returned when a Registry name is already taken.
	ErrDuplicateSchema = errors.New("skema: schema already registered")
	// ErrUnknownSchema is returned when a Registry lookup misses.
	ErrUnknownSchema = errors.New("skema: unknown schema")
	// ErrInvalidName is returned for empty Registry names.
	ErrInvalidName = errors.New("skema: invalid schema name")
)
