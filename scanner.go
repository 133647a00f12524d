// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/creachadair/tablejson/internal/cursor"
	"github.com/creachadair/tablejson/internal/escape"
	"github.com/creachadair/tablejson/internal/textconv"
	"go4.org/mem"
)

type scanState byte

const (
	scanInitial scanState = iota
	scanHasValue
	scanEnd
	scanError
)

var scanStateStr = [...]string{
	scanInitial:  "initial",
	scanHasValue: "has-value",
	scanEnd:      "end",
	scanError:    "error",
}

func (s scanState) String() string { return scanStateStr[s] }

// A Scanner reads lexical tokens from an in-memory input. Each call to Next
// advances the scanner to the next token, or reports an error.
//
// The grammar is a relaxed form of JSON: strings may be quoted with either
// double or single quotation marks, numbers may be written in hexadecimal
// with a 0x prefix, and the keywords NaN and Infinity denote numbers.
type Scanner struct {
	c     *cursor.Cursor
	tok   Token
	err   error
	state scanState

	pos int // start offset of current token
}

// NewScanner constructs a new lexical scanner over text.
func NewScanner(text string) *Scanner { return newScanner(mem.S(text)) }

// NewScannerBytes constructs a new lexical scanner over text. The caller must
// not modify text while the scanner is in use.
func NewScannerBytes(text []byte) *Scanner { return newScanner(mem.B(text)) }

func newScanner(text mem.RO) *Scanner { return &Scanner{c: cursor.New(text)} }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF. A lexical error is reported
// as a *ScanError, after which the scanner is unusable: further calls to Next
// report a *UsageError.
func (s *Scanner) Next() error {
	switch s.state {
	case scanError:
		return usageError("Next", s.state)
	case scanEnd:
		return io.EOF
	}
	s.tok = Token{}

	for {
		s.c.MarkAtom()
		s.pos = s.c.Offset()
		ch, ok := s.c.Next()
		if !ok {
			s.state = scanEnd
			s.err = io.EOF
			return io.EOF
		}

		// Discard whitespace.
		if textconv.IsSpace(ch) {
			s.c.ConsumeWhile(textconv.IsSpace, true)
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim[ch]; ok {
			return s.setToken(t)
		}

		switch {
		case ch == '"' || ch == '\'':
			return s.scanString(ch)
		case ch == '-', ch == '.' && s.c.PeekMatches(textconv.IsDigit):
			return s.scanDecimal()
		case ch == '0' && s.c.ConsumeIfEither('x', 'X'):
			return s.scanHex()
		case textconv.IsDigit(ch):
			return s.scanDecimal()
		default:
			return s.scanKeyword()
		}
	}
}

// Token returns the current token. Before the first successful call to Next,
// and after Next reports an error, the token has kind KindInvalid.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.c.Offset()} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location { return locate(s.c.Text(), s.Span()) }

func (s *Scanner) setToken(t Token) error {
	s.tok = t
	s.state = scanHasValue
	s.err = nil
	return nil
}

// scanString scans a string delimited by open. The opening quotation mark has
// already been consumed. Escapes are validated here and normalized into body,
// which is then decoded by the escape package.
func (s *Scanner) scanString(open rune) error {
	var body []byte
	for {
		at := s.c.Offset()
		ch, ok := s.c.Next()
		if !ok {
			return s.failf("unterminated string")
		}
		switch {
		case ch == open:
			// A doubled delimiter stands for the delimiter itself.
			if s.c.ConsumeIf(open) {
				body = append(body, '\\', byte(open))
				continue
			}
			dec, err := escape.Unquote(mem.B(body))
			if err != nil {
				return s.fail(err)
			}
			return s.setToken(stringToken(s.c.AtomText(), string(dec)))

		case ch == '\\':
			esc, ok := s.c.Next()
			if !ok {
				return s.failf("unterminated string")
			}
			switch esc {
			case '"', '\'', '\\', '/', 'b', 'f', 'n', 'r', 't':
				body = append(body, '\\', byte(esc))
			case 'u':
				body = append(body, '\\', 'u')
				for i := 0; i < 4; i++ {
					h, ok := s.c.Next()
					if !ok || !textconv.IsHexDigit(h) {
						return s.failf("invalid Unicode escape")
					}
					body = append(body, byte(h))
				}
			default:
				return s.failf("invalid %q after escape", esc)
			}

		case ch < ' ':
			return s.failf("unescaped control %q", ch)

		case ch == utf8.RuneError && s.c.Offset()-at == 1:
			return s.failf("invalid UTF-8 byte %#02x in string", s.c.Text().At(at))

		default:
			body = utf8.AppendRune(body, ch)
		}
	}
}

// scanDecimal scans a decimal number whose first character has already been
// consumed.
func (s *Scanner) scanDecimal() error {
	s.c.UndoOne()
	if s.c.ConsumeIf('-') && s.c.PeekMatches(isInfinityStart) {
		s.c.ConsumeWhile(textconv.IsIdentRune, true)
		if text := s.c.AtomText(); text != tokNegInfinity.text {
			return s.failf("invalid number %q", text)
		}
		return s.setToken(tokNegInfinity)
	}

	nd := s.c.ConsumeWhile(textconv.IsDigit, true)
	if s.c.ConsumeIf('.') {
		nf := s.c.ConsumeWhile(textconv.IsDigit, true)
		if nf == 0 {
			return s.failf("no digits after decimal point")
		}
		nd += nf
	}
	if nd == 0 {
		return s.failf("missing digits in number %q", s.c.AtomText())
	}
	if s.c.ConsumeIfEither('e', 'E') {
		s.c.ConsumeIfEither('+', '-')
		if s.c.ConsumeWhile(textconv.IsDigit, true) == 0 {
			return s.failf("missing exponent digits")
		}
	}
	if s.c.PeekMatches(textconv.IsIdentRune) {
		s.c.ConsumeWhile(textconv.IsIdentRune, true)
		return s.failf("invalid number %q", s.c.AtomText())
	}
	v, ok := s.c.ParseAtomDecimal()
	if !ok {
		return s.failf("invalid number %q", s.c.AtomText())
	}
	return s.setToken(numberToken(s.c.AtomText(), v))
}

// scanHex scans a hexadecimal integer whose 0x prefix has been consumed.
func (s *Scanner) scanHex() error {
	if s.c.ConsumeWhile(textconv.IsHexDigit, true) == 0 {
		return s.failf("no digits after hex prefix")
	}
	if s.c.PeekMatches(textconv.IsIdentRune) {
		s.c.ConsumeWhile(textconv.IsIdentRune, true)
		return s.failf("invalid hex number %q", s.c.AtomText())
	}
	v, ok := s.c.ParseAtomHex()
	if !ok {
		return s.failf("hex number %q out of range", s.c.AtomText())
	}
	return s.setToken(numberToken(s.c.AtomText(), float64(v)))
}

// scanKeyword scans an unquoted identifier, which must be one of the fixed
// keywords.
func (s *Scanner) scanKeyword() error {
	s.c.UndoOne()
	if s.c.ConsumeWhile(textconv.IsIdentRune, true) == 0 {
		ch, _ := s.c.Next()
		return s.failf("unexpected %q", ch)
	}
	text := s.c.AtomText()
	if t, ok := keywords[text]; ok {
		return s.setToken(t)
	}
	return s.failf("unknown constant %q", text)
}

func isInfinityStart(ch rune) bool { return ch == 'I' }

func (s *Scanner) fail(err error) error {
	s.tok = Token{}
	s.state = scanError
	s.err = &ScanError{
		Offset:   s.c.Offset(),
		Location: s.Location(),
		Message:  err.Error(),
		err:      err,
	}
	return s.err
}

func (s *Scanner) failf(msg string, args ...any) error {
	s.tok = Token{}
	s.state = scanError
	s.err = &ScanError{
		Offset:   s.c.Offset(),
		Location: s.Location(),
		Message:  fmt.Sprintf(msg, args...),
	}
	return s.err
}
