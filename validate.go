package skema

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/internal/logging"
)

// Result is the outcome of a validation: either a normalized Value or a
// list of Issues, never both.
type Result struct {
	Value  any
	Issues Issues
}

// OK reports whether validation succeeded.
func (r Result) OK() bool { return r.Issues == nil }

// Err returns the Issues as an error, or nil on success.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return r.Issues
}

// MarshalJSON renders {"value": ...} on success and {"issues": [...]} on
// failure. An absent value renders as null.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		return json.Marshal(struct {
			Issues Issues `json:"issues"`
		}{r.Issues})
	}
	v := r.Value
	if IsUndefined(v) {
		v = nil
	}
	return json.Marshal(struct {
		Value any `json:"value"`
	}{v})
}

// Observer receives one notification per top-level validation.
type Observer interface {
	ObserveValidation(name string, res Result, elapsed time.Duration)
}

// Validator runs schemas against dynamic values. It holds no per-call state
// and is safe for concurrent use.
type Validator struct {
	host       Host
	logger     *slog.Logger
	observer   Observer
	translator i18n.Translator
}

// Option configures a Validator.
type Option func(*Validator)

// WithHost replaces the value host (default: NativeHost).
func WithHost(h Host) Option {
	return func(v *Validator) {
		if h != nil {
			v.host = h
		}
	}
}

// WithInstancePredicate installs a NativeHost using fn as the identity
// predicate for instance-of schemas.
func WithInstancePredicate(fn func(v, ctor any) bool) Option {
	return func(v *Validator) {
		v.host = NativeHost{InstancePredicate: fn}
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithObserver configures a validation observer (for example metrics).
func WithObserver(o Observer) Option {
	return func(v *Validator) { v.observer = o }
}

// WithTranslator pins the message translator. Without it the process-wide
// i18n translator is used.
func WithTranslator(tr i18n.Translator) Option {
	return func(v *Validator) { v.translator = tr }
}

// NewValidator builds a Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{host: DefaultHost, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// DefaultValidator backs Schema.Validate and Schema.Parse.
var DefaultValidator = NewValidator()

// Host returns the value host used by v.
func (v *Validator) Host() Host { return v.host }

// Validate checks input against s.
func (v *Validator) Validate(s *Schema, input any) Result {
	return v.ValidateNamed("", s, input)
}

// ValidateNamed is Validate with a name reported to the logger and observer.
func (v *Validator) ValidateNamed(name string, s *Schema, input any) Result {
	start := time.Now()
	out, issues := v.validate(s, input, nil)
	res := Result{Value: out, Issues: issues}
	if !res.OK() {
		v.logger.Debug("validation failed", "schema", name, "issues", len(issues))
	}
	if v.observer != nil {
		v.observer.ObserveValidation(name, res, time.Since(start))
	}
	return res
}

// Validate checks input against s with DefaultValidator.
func (s *Schema) Validate(input any) Result { return DefaultValidator.Validate(s, input) }

// Parse returns the normalized value, or Issues as the error.
func (s *Schema) Parse(input any) (any, error) {
	res := DefaultValidator.Validate(s, input)
	if !res.OK() {
		return nil, res.Issues
	}
	return res.Value, nil
}

// validate is the recursive engine. A nil Issues return means success.
func (v *Validator) validate(s *Schema, value any, path []string) (any, Issues) {
	h := v.host
	vk := h.KindOf(value)

	if vk == ValueUndefined || vk == ValueNull {
		_, isNull := s.v.(nullVariant)
		if s.optional || (isNull && vk == ValueNull) {
			return Undefined, nil
		}
	}

	switch sv := s.v.(type) {
	case stringVariant:
		str, ok := h.AsString(value)
		if !ok {
			if !sv.coerce {
				return nil, v.fail(CodeInvalidType, path, "expected", "string", "received", vk.String())
			}
			str = h.Display(value)
		}
		n := utf8.RuneCountInString(str)
		if sv.minLen != nil && n < *sv.minLen {
			return nil, v.fail(CodeTooShort, path, "min", strconv.Itoa(*sv.minLen))
		}
		if sv.maxLen != nil && n > *sv.maxLen {
			return nil, v.fail(CodeTooLong, path, "max", strconv.Itoa(*sv.maxLen))
		}
		if sv.format != nil && !sv.format.Match(str) {
			if sv.format.err != nil {
				v.logger.Warn("regex format never matches", "pattern", sv.format.Pattern, "error", sv.format.err)
			}
			return nil, v.fail(CodeInvalidFormat, path, "format", sv.format.Name())
		}
		return str, nil

	case numberVariant:
		f, ok := h.AsNumber(value)
		if !ok {
			str, isStr := h.AsString(value)
			if !sv.coerce || !isStr {
				return nil, v.fail(CodeInvalidType, path, "expected", "number")
			}
			parsed, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return nil, v.fail(CodeCoerceFailed, path, "input", str)
			}
			f = parsed
		}
		if sv.min != nil && f < *sv.min {
			return nil, v.fail(CodeTooSmall, path, "min", FormatNumber(*sv.min))
		}
		if sv.max != nil && f > *sv.max {
			return nil, v.fail(CodeTooBig, path, "max", FormatNumber(*sv.max))
		}
		return f, nil

	case boolVariant:
		if _, isBool := h.AsBool(value); isBool || sv.coerce {
			return h.Truthy(value), nil
		}
		return nil, v.fail(CodeInvalidType, path, "expected", "boolean")

	case literalVariant:
		if h.Equal(value, sv.value) {
			return value, nil
		}
		return nil, v.fail(CodeLiteralMismatch, path)

	case nullVariant:
		if vk == ValueNull {
			return value, nil
		}
		return nil, v.fail(CodeInvalidType, path, "expected", "null")

	case anyVariant:
		return value, nil

	case objectVariant:
		if vk != ValueObject {
			return nil, v.fail(CodeInvalidType, path, "expected", "object")
		}
		out := h.NewObject()
		var issues Issues
		for _, p := range sv.props {
			pv := h.Property(value, p.key)
			cp := childPath(path, p.key)
			res, sub := v.validate(p.schema, pv, cp)
			if sub != nil {
				if h.KindOf(pv) == ValueUndefined && !p.schema.optional {
					issues = append(issues, v.issue(CodeRequired, cp, "key", p.key))
				} else {
					issues = append(issues, sub...)
				}
				continue
			}
			if IsUndefined(res) {
				// Keep explicit nulls, drop absent keys.
				if h.KindOf(pv) == ValueNull {
					out = h.SetProperty(out, p.key, pv)
				}
				continue
			}
			out = h.SetProperty(out, p.key, res)
		}
		if issues != nil {
			return nil, issues
		}
		return out, nil

	case arrayVariant:
		if vk != ValueArray {
			return nil, v.fail(CodeInvalidType, path, "expected", "array")
		}
		out := h.NewArray(0)
		var issues Issues
		h.Elements(value, func(i int, elem any) {
			res, sub := v.validate(sv.item, elem, childPath(path, strconv.Itoa(i)))
			if sub != nil {
				issues = append(issues, sub...)
				return
			}
			if IsUndefined(res) {
				res = nil
			}
			out = h.Push(out, res)
		})
		if issues != nil {
			return nil, issues
		}
		return out, nil

	case unionVariant:
		all := Issues{}
		for _, alt := range sv.alts {
			res, sub := v.validate(alt, value, path)
			if sub == nil {
				return res, nil
			}
			all = append(all, sub...)
		}
		return nil, all

	case instanceOfVariant:
		if h.InstanceOf(value, sv.ctor) {
			return value, nil
		}
		return nil, v.fail(CodeInvalidInstance, path, "name", sv.name)

	default:
		panic(fmt.Sprintf("skema: unhandled schema variant %T", s.v))
	}
}

func (v *Validator) fail(code string, path []string, kv ...string) Issues {
	return Issues{v.issue(code, path, kv...)}
}

func (v *Validator) issue(code string, path []string, kv ...string) Issue {
	var params map[string]string
	if len(kv) > 0 {
		params = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			params[kv[i]] = kv[i+1]
		}
	}
	var msg string
	if v.translator != nil {
		msg = v.translator.Message(code, params)
	} else {
		msg = i18n.T(code, params)
	}
	return Issue{Message: msg, Path: path, Code: code, Params: params}
}

// childPath returns a fresh slice so sibling paths never share storage.
func childPath(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}
