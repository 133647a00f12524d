// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/creachadair/tablejson/internal/textconv"
	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote encodes a string to escape characters for inclusion in a quoted
// string. The enclosing quotation marks are not added.
//
// Quotation marks, backslashes and the C control escapes use their short
// forms. Letters, digits, punctuation, symbols and space are copied as-is.
// Every other character is written as a \u escape, using a surrogate pair for
// characters outside the Basic Multilingual Plane.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len())
	putByte := func(bs ...byte) { buf = append(buf, bs...) }
	putU16 := func(v rune) {
		putByte('\\', 'u',
			hexDigit[(v>>12)&15], hexDigit[(v>>8)&15], hexDigit[(v>>4)&15], hexDigit[v&15])
	}

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		switch {
		case r < ' ' && controlEsc[r] != 0:
			putByte('\\', controlEsc[r])
		case r == '\\' || r == '"':
			putByte('\\', byte(r))
		case textconv.IsVerbatim(r):
			var rbuf [utf8.UTFMax]byte
			n := utf8.EncodeRune(rbuf[:], r)
			buf = append(buf, rbuf[:n]...)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			putU16(hi)
			putU16(lo)
		default:
			putU16(r)
		}
	}
	return buf
}
