package skema

import (
	"regexp"

	"github.com/google/uuid"
)

// FormatKind names a string format check.
type FormatKind int

const (
	FormatUUID FormatKind = iota + 1
	FormatEmail
	FormatPhone
	FormatRegex
	FormatDomain
)

// Format is the active string format of a String schema. Only one format is
// active at a time; setting another replaces it.
type Format struct {
	Kind            FormatKind
	Pattern         string // FormatRegex only.
	RequireProtocol bool   // FormatDomain only.

	re  *regexp.Regexp
	err error
}

// Name is the value exported as "format" in the structural mirror. Regex
// formats export their pattern.
func (f *Format) Name() string {
	switch f.Kind {
	case FormatUUID:
		return "uuid"
	case FormatEmail:
		return "email"
	case FormatPhone:
		return "phone"
	case FormatRegex:
		return f.Pattern
	case FormatDomain:
		return "domain"
	}
	return ""
}

var (
	emailRe          = regexp.MustCompile(`^[^\s\p{Z}\x{85}@]+@[^\s\p{Z}\x{85}@]+\.[^\s\p{Z}\x{85}@]+$`)
	phoneRe          = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	domainRe         = regexp.MustCompile(`^[a-z0-9]+([-.][a-z0-9]+)*\.[a-z]{2,6}$`)
	domainProtocolRe = regexp.MustCompile(`^https?://[a-z0-9]+([-.][a-z0-9]+)*\.[a-z]{2,6}$`)
)

// Match reports whether s satisfies the format. A regex format whose pattern
// failed to compile never matches.
func (f *Format) Match(s string) bool {
	switch f.Kind {
	case FormatUUID:
		return isUUIDv4Shaped(s)
	case FormatEmail:
		return emailRe.MatchString(s)
	case FormatPhone:
		return phoneRe.MatchString(s)
	case FormatRegex:
		if f.re == nil {
			return false
		}
		return f.re.MatchString(s)
	case FormatDomain:
		if f.RequireProtocol {
			return domainProtocolRe.MatchString(s)
		}
		return domainRe.MatchString(s)
	}
	return false
}

// isUUIDv4Shaped accepts only the canonical 8-4-4-4-12 hex form (any case)
// whose variant nibble is one of 8, 9, a or b.
func isUUIDv4Shaped(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Variant() == uuid.RFC4122
}
