// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"fmt"
	"math"
)

// Kind is the type of a lexical token.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindInvalid     Kind = iota // invalid token
	KindBeginObject             // left brace "{"
	KindEndObject               // right brace "}"
	KindBeginArray              // left square bracket "["
	KindEndArray                // right square bracket "]"
	KindColon                   // colon ":"
	KindComma                   // comma ","
	KindNull                    // constant: null
	KindBoolean                 // constant: true, false
	KindNumber                  // decimal or hexadecimal number, NaN, Infinity
	KindString                  // quoted string
)

var kindStr = [...]string{
	KindInvalid:     "invalid token",
	KindBeginObject: `"{"`,
	KindEndObject:   `"}"`,
	KindBeginArray:  `"["`,
	KindEndArray:    `"]"`,
	KindColon:       `":"`,
	KindComma:       `","`,
	KindNull:        "null",
	KindBoolean:     "boolean",
	KindNumber:      "number",
	KindString:      "string",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[KindInvalid]
	}
	return kindStr[v]
}

// A Token is a single lexical unit: its kind, its source text, and for
// boolean, number and string tokens, its decoded value.
//
// The structural and keyword tokens are shared values created once; number
// and string tokens are created for each occurrence. A Token is immutable.
type Token struct {
	kind Kind
	text string // the lexeme, as written in the input
	str  string
	num  float64
	ok   bool
}

// Shared tokens for punctuation and keywords.
var (
	tokBeginObject = Token{kind: KindBeginObject, text: "{"}
	tokEndObject   = Token{kind: KindEndObject, text: "}"}
	tokBeginArray  = Token{kind: KindBeginArray, text: "["}
	tokEndArray    = Token{kind: KindEndArray, text: "]"}
	tokColon       = Token{kind: KindColon, text: ":"}
	tokComma       = Token{kind: KindComma, text: ","}
	tokNull        = Token{kind: KindNull, text: "null"}
	tokTrue        = Token{kind: KindBoolean, text: "true", ok: true}
	tokFalse       = Token{kind: KindBoolean, text: "false"}
	tokNaN         = Token{kind: KindNumber, text: "NaN", num: math.NaN()}
	tokInfinity    = Token{kind: KindNumber, text: "Infinity", num: math.Inf(1)}
	tokNegInfinity = Token{kind: KindNumber, text: "-Infinity", num: math.Inf(-1)}
)

var keywords = map[string]Token{
	"null":     tokNull,
	"true":     tokTrue,
	"false":    tokFalse,
	"NaN":      tokNaN,
	"Infinity": tokInfinity,
}

// selfDelim maps the single-character structural tokens.
var selfDelim = map[rune]Token{
	'{': tokBeginObject,
	'}': tokEndObject,
	'[': tokBeginArray,
	']': tokEndArray,
	':': tokColon,
	',': tokComma,
}

func numberToken(text string, v float64) Token { return Token{kind: KindNumber, text: text, num: v} }

func stringToken(text, v string) Token { return Token{kind: KindString, text: text, str: v} }

// Kind reports the kind of t.
func (t Token) Kind() Kind { return t.kind }

// Text returns the source text of t, as written in the input.
func (t Token) Text() string { return t.text }

// String returns the source text of t. It satisfies fmt.Stringer, and unlike
// StringValue it accepts tokens of every kind.
func (t Token) String() string { return t.text }

// Float64 returns the value of a number token. It panics if t is not a
// number.
func (t Token) Float64() float64 { t.mustBe(KindNumber); return t.num }

// Bool returns the value of a boolean token. It panics if t is not a boolean.
func (t Token) Bool() bool { t.mustBe(KindBoolean); return t.ok }

// StringValue returns the unescaped value of a string token. It panics if t
// is not a string.
func (t Token) StringValue() string { t.mustBe(KindString); return t.str }

func (t Token) mustBe(k Kind) {
	if t.kind != k {
		panic(fmt.Sprintf("tablejson: %v token %q has no %v value", t.kind, t.text, k))
	}
}
