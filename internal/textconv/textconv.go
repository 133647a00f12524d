// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package textconv implements the stateless conversions shared by the entity
// reader and writer: epoch time, byte strings, and character classes.
package textconv

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Epoch is the origin of encoded DateTime values.
var Epoch = time.Unix(0, 0).UTC()

// ToEpochMillis reports the number of milliseconds from Epoch to t.
// Sub-millisecond precision is truncated toward zero.
func ToEpochMillis(t time.Time) int64 { return t.UnixMilli() }

// FromEpochMillis returns the UTC time ms milliseconds after Epoch.
func FromEpochMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// BytesToString maps each byte of data to the character with the same code
// point, so that the result has exactly len(data) characters.
func BytesToString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

// StringToBytes is the inverse of BytesToString. It reports false if s
// contains a character whose code point does not fit in a single byte.
func StringToBytes(s string) ([]byte, bool) {
	out := make([]byte, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		if r > 0xff {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

// IsHexDigit reports whether ch is a hexadecimal digit in either case.
func IsHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// IsDigit reports whether ch is an ASCII decimal digit.
func IsDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

// IsIdentRune reports whether ch may appear in an unquoted identifier:
// a letter, a digit, or an underscore.
func IsIdentRune(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// IsSpace reports whether ch is whitespace between tokens.
func IsSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v', 0xa0, 0xfeff:
		return true
	}
	return unicode.IsSpace(ch)
}

// IsVerbatim reports whether ch is written without escaping inside a quoted
// string. Quotation marks and backslashes are never verbatim.
func IsVerbatim(ch rune) bool {
	switch {
	case ch == '"' || ch == '\\':
		return false
	case ch == ' ':
		return true
	case ch == utf8.RuneError:
		return false
	}
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || unicode.IsPunct(ch) || unicode.IsSymbol(ch)
}
