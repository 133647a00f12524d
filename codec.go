// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/tablejson/internal/escape"
	"github.com/creachadair/tablejson/internal/textconv"
	"github.com/google/uuid"
	"go4.org/mem"
)

// Int64Width is the number of digits in the encoding of an Edm.Int64 value,
// not counting the sign of a negative value.
const Int64Width = 20

// A codec converts values of one EDM type to and from their wire form.
type codec struct {
	kind   Kind                             // the token kind of a non-null wire value
	decode func(Token) (Value, error)       // tok.Kind() == kind
	encode func(buf []byte, v Value) []byte // v is not Null
}

// codecs is indexed by EdmType. The assignment below fails to compile if the
// table and the EdmType constants disagree in length.
var codecs = [...]codec{
	EdmString:   {KindString, decodeString, encodeString},
	EdmBinary:   {KindString, decodeBinary, encodeBinary},
	EdmBoolean:  {KindBoolean, decodeBoolean, encodeBoolean},
	EdmDateTime: {KindNumber, decodeDateTime, encodeDateTime},
	EdmDouble:   {KindNumber, decodeDouble, encodeDouble},
	EdmGuid:     {KindString, decodeGuid, encodeGuid},
	EdmInt32:    {KindNumber, decodeInt32, encodeInt32},
	EdmInt64:    {KindString, decodeInt64, encodeInt64},
}

var _ [numEdmTypes]codec = codecs

func init() {
	for i, c := range codecs {
		if c.decode == nil || c.encode == nil {
			panic(fmt.Sprintf("tablejson: missing codec for %v", EdmType(i)))
		}
	}
}

// decodeValue converts tok to a value of type t. The caller has checked that
// t is valid.
func decodeValue(t EdmType, tok Token) (Value, error) {
	if tok.Kind() == KindNull {
		return Null(t), nil
	}
	c := codecs[t]
	if tok.Kind() != c.kind {
		return nil, formatErrorf(c.kind, tok.Kind(), "value of type %v", t)
	}
	return c.decode(tok)
}

// appendValue appends the wire form of v (without its type wrapper) to buf.
func appendValue(buf []byte, v Value) []byte {
	if v.IsNull() {
		return append(buf, "null"...)
	}
	return codecs[v.Type()].encode(buf, v)
}

func appendQuoted(buf []byte, s string) []byte {
	buf = append(buf, '"')
	buf = append(buf, escape.Quote(mem.S(s))...)
	return append(buf, '"')
}

func decodeString(tok Token) (Value, error) { return String(tok.StringValue()), nil }

func encodeString(buf []byte, v Value) []byte { return appendQuoted(buf, string(v.(String))) }

func decodeBinary(tok Token) (Value, error) {
	b, ok := textconv.StringToBytes(tok.StringValue())
	if !ok {
		return nil, formatErrorf("characters in U+0000..U+00FF", tok.Text(), "value of type %v", EdmBinary)
	}
	return Binary(b), nil
}

func encodeBinary(buf []byte, v Value) []byte {
	return appendQuoted(buf, textconv.BytesToString(v.(Binary)))
}

func decodeBoolean(tok Token) (Value, error) { return Boolean(tok.Bool()), nil }

func encodeBoolean(buf []byte, v Value) []byte {
	return strconv.AppendBool(buf, bool(v.(Boolean)))
}

func decodeDateTime(tok Token) (Value, error) {
	ms, ok := integral(tok.Float64(), math.MinInt64, math.MaxInt64)
	if !ok {
		return nil, formatErrorf("integer milliseconds", tok.Text(), "value of type %v", EdmDateTime)
	}
	return DateTime(textconv.FromEpochMillis(ms)), nil
}

func encodeDateTime(buf []byte, v Value) []byte {
	return strconv.AppendInt(buf, textconv.ToEpochMillis(v.(DateTime).Time()), 10)
}

func decodeDouble(tok Token) (Value, error) { return Double(tok.Float64()), nil }

func encodeDouble(buf []byte, v Value) []byte {
	f := float64(v.(Double))
	switch {
	case math.IsNaN(f):
		return append(buf, tokNaN.text...)
	case math.IsInf(f, 1):
		return append(buf, tokInfinity.text...)
	case math.IsInf(f, -1):
		return append(buf, tokNegInfinity.text...)
	}
	// Use exponent notation only for very large and very small magnitudes,
	// as encoding/json does.
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.AppendFloat(buf, f, format, -1, 64)
}

func decodeGuid(tok Token) (Value, error) {
	u, err := uuid.Parse(tok.StringValue())
	if err != nil {
		return nil, formatErrorf("a GUID", tok.Text(), "value of type %v", EdmGuid)
	}
	return Guid(u), nil
}

func encodeGuid(buf []byte, v Value) []byte { return appendQuoted(buf, v.(Guid).String()) }

func decodeInt32(tok Token) (Value, error) {
	n, ok := integral(tok.Float64(), math.MinInt32, math.MaxInt32)
	if !ok {
		return nil, formatErrorf("a 32-bit integer", tok.Text(), "value of type %v", EdmInt32)
	}
	return Int32(n), nil
}

func encodeInt32(buf []byte, v Value) []byte {
	return strconv.AppendInt(buf, int64(v.(Int32)), 10)
}

func decodeInt64(tok Token) (Value, error) {
	n, err := strconv.ParseInt(tok.StringValue(), 10, 64)
	if err != nil {
		return nil, formatErrorf("a decimal 64-bit integer", tok.Text(), "value of type %v", EdmInt64)
	}
	return Int64(n), nil
}

func encodeInt64(buf []byte, v Value) []byte {
	buf = append(buf, '"')
	buf = AppendInt64(buf, int64(v.(Int64)))
	return append(buf, '"')
}

// AppendInt64 appends the fixed-width decimal encoding of v to buf: a minus
// sign for negative values followed by Int64Width digits, zero-padded on the
// left. For non-negative values the lexicographic order of the encodings
// matches the numeric order of the values.
func AppendInt64(buf []byte, v int64) []byte {
	u := uint64(v)
	if v < 0 {
		buf = append(buf, '-')
		u = -u
	}
	var digits [Int64Width]byte
	i := len(digits)
	for u > 0 {
		i--
		digits[i] = byte('0' + u%10)
		u /= 10
	}
	for i > 0 {
		i--
		digits[i] = '0'
	}
	return append(buf, digits[:]...)
}

// integral reports whether f is an integer in [lo, hi], and if so returns it.
func integral(f float64, lo, hi int64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, so compare with >= there.
	if f < float64(lo) || f > float64(hi) || (hi == math.MaxInt64 && f >= float64(hi)) {
		return 0, false
	}
	return int64(f), true
}
