// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"errors"

	"github.com/creachadair/tablejson/internal/escape"

	"go4.org/mem"
)

// Escape encodes src for inclusion in a quoted string value. Quotation marks
// are not added. Escape and Unescape are inverses: Unescape(Escape(s)) == s
// for every valid UTF-8 string s.
func Escape(src string) string { return string(escape.Quote(mem.S(src))) }

// Unescape decodes the escaped text of a string value, without its quotation
// marks. It reports an error for an invalid or incomplete escape sequence.
func Unescape(src string) (string, error) {
	dec, err := escape.Unquote(mem.S(src))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

// Quote encodes src as a string value. The contents are escaped and double
// quotation marks are added.
func Quote(src string) string { return string(appendQuoted(nil, src)) }

// Unquote decodes a string value. Quotation marks, which may be either
// double or single, are removed, and escape sequences are replaced with their
// unescaped equivalents.
func Unquote(src string) (string, error) {
	if len(src) < 2 || (src[0] != '"' && src[0] != '\'') || src[len(src)-1] != src[0] {
		return "", errors.New("missing quotations")
	}
	return Unescape(src[1 : len(src)-1])
}
