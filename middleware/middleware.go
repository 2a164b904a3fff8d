// Package middleware validates JSON request bodies at HTTP boundaries.
// Framework adapters live in the gin and echo sub-modules and share the
// context helpers and payload shape defined here.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema"
)

// ctxKeyValue is a typed context key for the normalized value.
type ctxKeyValue struct{}

// valueBox keeps a stored nil or absent value distinguishable from a
// missing entry.
type valueBox struct{ v any }

// ContextWithValue attaches a normalized value to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, valueBox{v})
}

// ValueFromContext retrieves the normalized value stored by Validate.
func ValueFromContext(ctx context.Context) (any, bool) {
	b, ok := ctx.Value(ctxKeyValue{}).(valueBox)
	return b.v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries:
// duplicate keys are errors, nesting is capped at 64 and bodies at 1 MiB.
func DefaultParseOpt() skema.ParseOpt {
	return skema.ParseOpt{
		Strictness: skema.Strictness{OnDuplicateKey: skema.Error},
		MaxDepth:   64,
		MaxBytes:   1 << 20,
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []skema.Issue) map[string]any {
	if issues == nil {
		issues = []skema.Issue{}
	}
	return map[string]any{"issues": issues}
}

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, issues skema.Issues)

// WriteIssues is the default ErrorHandler: 422 with {"issues": [...]}.
func WriteIssues(w http.ResponseWriter, _ *http.Request, issues skema.Issues) {
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorPayload(issues))
}

// WriteJSON encodes v with go-json.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type config struct {
	opt     skema.ParseOpt
	onError ErrorHandler
}

// Option configures Validate.
type Option func(*config)

// WithParseOpt replaces DefaultParseOpt. The Validator and Name fields are
// kept unless set.
func WithParseOpt(opt skema.ParseOpt) Option {
	return func(c *config) {
		v, name := c.opt.Validator, c.opt.Name
		c.opt = opt
		if c.opt.Validator == nil {
			c.opt.Validator = v
		}
		if c.opt.Name == "" {
			c.opt.Name = name
		}
	}
}

// WithValidator runs validations through v (for example one carrying a
// metrics observer).
func WithValidator(v *skema.Validator) Option {
	return func(c *config) { c.opt.Validator = v }
}

// WithName labels validations for logs and metrics.
func WithName(name string) Option {
	return func(c *config) { c.opt.Name = name }
}

// WithErrorHandler replaces WriteIssues.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.onError = h
		}
	}
}

// Validate parses the request body with s. On success the normalized value
// is stored in the request context; on failure the error handler runs and
// next is not called.
func Validate(s *skema.Schema, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{opt: DefaultParseOpt(), onError: WriteIssues}
	for _, o := range opts {
		o(cfg)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := Parse(r, s, cfg.opt)
			if err != nil {
				iss, _ := skema.AsIssues(err)
				cfg.onError(w, r, iss)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

// Parse validates the JSON body of r against s. Errors are always Issues.
func Parse(r *http.Request, s *skema.Schema, opt skema.ParseOpt) (any, error) {
	body := r.Body
	if body == nil {
		body = http.NoBody
	}
	return skema.ParseJSONReader(r.Context(), s, body, opt)
}
