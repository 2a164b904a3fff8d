package skema

// Severity expresses how an input-level finding is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement while decoding raw input.
type Strictness struct {
	OnDuplicateKey Severity // Ignore, Warn (logged) or Error (duplicate JSON keys).
}

// ParseOpt bundles options for the raw-input entry points (ParseJSON,
// ParseJSONReader, ParseYAML).
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 means unlimited.
	MaxBytes   int64 // 0 means unlimited.
	// Name labels the validation for logs and observers.
	Name string
	// Validator overrides DefaultValidator.
	Validator *Validator
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func (o ParseOpt) validator() *Validator {
	if o.Validator != nil {
		return o.Validator
	}
	return DefaultValidator
}
