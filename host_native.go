package skema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

// NativeHost interprets ordinary Go values: decoded JSON/YAML trees
// (map[string]any, []any, json.Number, float64, string, bool, nil), any
// numeric kind, maps with string keys, slices, and structs (viewed as objects
// through their json tags).
type NativeHost struct {
	// InstancePredicate overrides the reflect.Type based identity check when
	// set.
	InstancePredicate func(v, ctor any) bool
}

// DefaultHost is the host used by DefaultValidator.
var DefaultHost Host = NativeHost{}

// numberText matches json.Number from encoding/json and goccy/go-json.
type numberText interface {
	Float64() (float64, error)
	String() string
}

func (NativeHost) KindOf(v any) ValueKind {
	switch t := v.(type) {
	case undefined:
		return ValueUndefined
	case nil:
		return ValueNull
	case string:
		return ValueString
	case bool:
		return ValueBool
	case float64, int, int64:
		return ValueNumber
	case map[string]any:
		return ValueObject
	case []any:
		return ValueArray
	case numberText:
		if _, err := t.Float64(); err == nil {
			return ValueNumber
		}
	}
	rv, ok := deref(reflect.ValueOf(v))
	if !ok {
		return ValueNull
	}
	switch rv.Kind() {
	case reflect.String:
		return ValueString
	case reflect.Bool:
		return ValueBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return ValueNumber
	case reflect.Slice, reflect.Array:
		return ValueArray
	case reflect.Map:
		if k := rv.Type().Key().Kind(); k == reflect.String || k == reflect.Interface {
			return ValueObject
		}
		return ValueOther
	case reflect.Struct:
		return ValueObject
	default:
		return ValueOther
	}
}

func (h NativeHost) AsString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if h.KindOf(v) != ValueString {
		return "", false
	}
	rv, _ := deref(reflect.ValueOf(v))
	return rv.String(), true
}

func (h NativeHost) AsNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case numberText:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	rv, ok := deref(reflect.ValueOf(v))
	if !ok {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func (NativeHost) AsBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv, ok := deref(reflect.ValueOf(v))
	if ok && rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

// Truthy follows the usual dynamic-language rules: undefined, null, false,
// 0, NaN and "" are falsy; everything else (including empty containers) is
// truthy.
func (h NativeHost) Truthy(v any) bool {
	switch h.KindOf(v) {
	case ValueUndefined, ValueNull:
		return false
	case ValueBool:
		b, _ := h.AsBool(v)
		return b
	case ValueNumber:
		f, _ := h.AsNumber(v)
		return f != 0 && !math.IsNaN(f)
	case ValueString:
		s, _ := h.AsString(v)
		return s != ""
	default:
		return true
	}
}

func (h NativeHost) Display(v any) string {
	switch h.KindOf(v) {
	case ValueUndefined:
		return "undefined"
	case ValueNull:
		return "null"
	case ValueString:
		s, _ := h.AsString(v)
		return s
	case ValueBool:
		b, _ := h.AsBool(v)
		return strconv.FormatBool(b)
	case ValueNumber:
		f, _ := h.AsNumber(v)
		return FormatNumber(f)
	case ValueArray, ValueObject:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// FormatNumber renders f the way issue messages and string coercion expect:
// integral values without a fractional part, exponent notation only for very
// large or very small magnitudes.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if a := math.Abs(f); a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (h NativeHost) Property(obj any, key string) any {
	if m, ok := obj.(map[string]any); ok {
		if v, found := m[key]; found {
			return v
		}
		return Undefined
	}
	rv, ok := deref(reflect.ValueOf(obj))
	if !ok {
		return Undefined
	}
	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		var kv reflect.Value
		switch kt.Kind() {
		case reflect.String:
			kv = reflect.ValueOf(key).Convert(kt)
		case reflect.Interface:
			kv = reflect.ValueOf(key)
		default:
			return Undefined
		}
		ev := rv.MapIndex(kv)
		if !ev.IsValid() {
			return Undefined
		}
		return ev.Interface()
	case reflect.Struct:
		m, err := structToMap(rv.Interface())
		if err != nil {
			return Undefined
		}
		if v, found := m[key]; found {
			return v
		}
	}
	return Undefined
}

// structToMap views a struct as an object keyed by its json field names.
func structToMap(v any) (map[string]any, error) {
	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &out})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	return out, nil
}

func (NativeHost) Elements(arr any, fn func(i int, elem any)) {
	if s, ok := arr.([]any); ok {
		for i, e := range s {
			fn(i, e)
		}
		return
	}
	rv, ok := deref(reflect.ValueOf(arr))
	if !ok || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return
	}
	for i := 0; i < rv.Len(); i++ {
		fn(i, rv.Index(i).Interface())
	}
}

// Equal is strict equality: numbers compare by value across Go numeric types
// (NaN never equals itself), strings and booleans by value, containers by
// identity.
func (h NativeHost) Equal(a, b any) bool {
	ka, kb := h.KindOf(a), h.KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case ValueUndefined, ValueNull:
		return true
	case ValueNumber:
		fa, _ := h.AsNumber(a)
		fb, _ := h.AsNumber(b)
		return fa == fb
	case ValueString:
		sa, _ := h.AsString(a)
		sb, _ := h.AsString(b)
		return sa == sb
	case ValueBool:
		ba, _ := h.AsBool(a)
		bb, _ := h.AsBool(b)
		return ba == bb
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Slice:
		return ra.UnsafePointer() == rb.UnsafePointer() && ra.Len() == rb.Len()
	}
	return ra.Comparable() && rb.Comparable() && ra.Equal(rb)
}

// InstanceOf treats ctor as a reflect.Type: interface types match any
// implementation, other types match exactly.
func (h NativeHost) InstanceOf(v, ctor any) bool {
	if h.InstancePredicate != nil {
		return h.InstancePredicate(v, ctor)
	}
	t, ok := ctor.(reflect.Type)
	if !ok || t == nil || v == nil || IsUndefined(v) {
		return false
	}
	vt := reflect.TypeOf(v)
	if t.Kind() == reflect.Interface {
		return vt.Implements(t)
	}
	return vt == t
}

func (NativeHost) NewObject() any { return map[string]any{} }

func (NativeHost) SetProperty(obj any, key string, v any) any {
	m, _ := obj.(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	m[key] = v
	return m
}

func (NativeHost) NewArray(n int) any { return make([]any, 0, n) }

func (NativeHost) Push(arr any, v any) any {
	s, _ := arr.([]any)
	return append(s, v)
}

// deref follows pointers and interfaces. ok is false for nil values.
func deref(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}
