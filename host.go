package skema

// ValueKind classifies a dynamic value as seen by a Host.
type ValueKind int

const (
	ValueUndefined ValueKind = iota // Absent (missing property, Undefined).
	ValueNull                       // Explicit null.
	ValueString
	ValueNumber
	ValueBool
	ValueArray
	ValueObject
	ValueOther // Functions, channels and anything else the host cannot classify.
)

// String returns the lowercase name used in issue messages.
func (k ValueKind) String() string {
	switch k {
	case ValueUndefined:
		return "undefined"
	case ValueNull:
		return "null"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	case ValueArray:
		return "array"
	case ValueObject:
		return "object"
	default:
		return "unknown"
	}
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the absence sentinel. Property lookups for missing keys yield
// Undefined, and validations that short-circuit on absence return it. Go nil
// is the null sentinel.
var Undefined any = undefined{}

// IsUndefined reports whether v is the absence sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Host is the capability set the engine uses to inspect and build dynamic
// values. The engine never type-asserts input values itself.
type Host interface {
	// KindOf classifies v.
	KindOf(v any) ValueKind
	// AsString returns the string payload when v is a string.
	AsString(v any) (string, bool)
	// AsNumber returns the numeric payload when v is a number.
	AsNumber(v any) (float64, bool)
	// AsBool returns the boolean payload when v is a boolean.
	AsBool(v any) (bool, bool)
	// Truthy evaluates v in a boolean context.
	Truthy(v any) bool
	// Display renders v as text for string coercion.
	Display(v any) string
	// Property returns obj[key], or Undefined when the key is missing.
	Property(obj any, key string) any
	// Elements calls fn for every element of an array-like value in order.
	Elements(arr any, fn func(i int, elem any))
	// Equal is the strict equality used by literal schemas.
	Equal(a, b any) bool
	// InstanceOf is the opaque identity predicate used by instance-of schemas.
	InstanceOf(v, ctor any) bool

	// NewObject returns an empty object-like container.
	NewObject() any
	// SetProperty stores v under key and returns the (possibly new) container.
	SetProperty(obj any, key string, v any) any
	// NewArray returns an empty array-like container with capacity n.
	NewArray(n int) any
	// Push appends v and returns the (possibly new) container.
	Push(arr any, v any) any
}
