package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "min" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			if r := data["received"]; r != "" {
				return expectedJA(data["expected"]) + "が必要です (受信: " + r + ")"
			}
			return expectedJA(data["expected"]) + "が必要です"
		case "required":
			return "必須プロパティが不足しています: " + data["key"]
		case "too_short":
			return "文字列が" + data["min"] + "文字より短いです"
		case "too_long":
			return "文字列が" + data["max"] + "文字より長いです"
		case "too_small":
			return "数値が" + data["min"] + "より小さいです"
		case "too_big":
			return "数値が" + data["max"] + "より大きいです"
		case "invalid_format":
			return "形式が不正です"
		case "coerce_failed":
			return "数値に変換できません"
		case "literal_mismatch":
			return "リテラルが一致しません"
		case "invalid_instance":
			return data["name"] + " のインスタンスが必要です"
		case "duplicate_key":
			return "キーが重複しています: " + data["key"]
		case "parse_error":
			return withDetail("解析エラー", data)
		case "truncated":
			return "打ち切られました"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			if r := data["received"]; r != "" {
				return "Expected " + data["expected"] + ", received " + r
			}
			return "Expected " + data["expected"]
		case "required":
			return "Missing required property: " + data["key"]
		case "too_short":
			return "String shorter than " + data["min"]
		case "too_long":
			return "String longer than " + data["max"]
		case "too_small":
			return "Number less than " + data["min"]
		case "too_big":
			return "Number greater than " + data["max"]
		case "invalid_format":
			return "Invalid format"
		case "coerce_failed":
			return "Could not coerce to number"
		case "literal_mismatch":
			return "Literal mismatch"
		case "invalid_instance":
			return "Expected instance of " + data["name"]
		case "duplicate_key":
			return "Duplicate key: " + data["key"]
		case "parse_error":
			return withDetail("Parse error", data)
		case "truncated":
			return "Input truncated: max bytes exceeded"
		}
	}
	return code
}

func withDetail(base string, data map[string]string) string {
	if d := strings.TrimSpace(data["detail"]); d != "" {
		return base + ": " + d
	}
	return base
}

func expectedJA(kind string) string {
	switch kind {
	case "string":
		return "文字列"
	case "number":
		return "数値"
	case "boolean":
		return "真偽値"
	case "null":
		return "null"
	case "object":
		return "オブジェクト"
	case "array":
		return "配列"
	}
	return kind
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// Dictionary returns the built-in Translator for lang without installing it.
func Dictionary(lang string) Translator {
	if lang != "ja" {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
