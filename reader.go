// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"fmt"
	"io"
	"maps"
	"strconv"

	"github.com/sirupsen/logrus"
)

type readState byte

const (
	readInitial  readState = iota // before Start
	readStarted                   // after Start, before the first property
	readHasValue                  // positioned at a property
	readDone                      // the closing brace has been consumed
	readEnded                     // End has succeeded
	readFailed                    // an error has been reported
	readClosed                    // Close has been called
)

var readStateStr = [...]string{
	readInitial:  "initial",
	readStarted:  "started",
	readHasValue: "has-value",
	readDone:     "done",
	readEnded:    "ended",
	readFailed:   "failed",
	readClosed:   "closed",
}

func (s readState) String() string { return readStateStr[s] }

// A Reader decodes the typed properties of a single entity document.
//
// The methods of a Reader must be called in order: Start, then MoveNext until
// it reports false, then End. After each successful MoveNext, CurrentName and
// CurrentValue report the property just read. Calling a method out of order
// reports a *UsageError. After any error the reader is unusable, and every
// method reports that error again.
//
// A Reader is not safe for concurrent use by multiple goroutines.
type Reader struct {
	s        *Scanner
	log      logrus.FieldLogger
	reserved map[string]bool
	state    readState
	err      error

	pending    Token // a token pushed back by push
	hasPending bool

	name  string
	value Value
	meta  map[string]any
}

// NewReader constructs a Reader that decodes the document in text.
// A nil opts is equivalent to a zero ReaderOptions.
func NewReader(text string, opts *ReaderOptions) *Reader {
	return newReader(NewScanner(text), opts)
}

// NewReaderBytes constructs a Reader that decodes the document in text.
// The caller must not modify text while the reader is in use.
func NewReaderBytes(text []byte, opts *ReaderOptions) *Reader {
	return newReader(NewScannerBytes(text), opts)
}

func newReader(s *Scanner, opts *ReaderOptions) *Reader {
	return &Reader{
		s:        s,
		log:      opts.logger(),
		reserved: opts.reserved(),
		meta:     make(map[string]any),
	}
}

// Start consumes the opening brace of the document.
func (r *Reader) Start() error {
	if err := r.check("Start", readInitial); err != nil {
		return err
	}
	if _, err := r.expect(KindBeginObject); err != nil {
		return r.fail(err)
	}
	r.state = readStarted
	return nil
}

// MoveNext advances r to the next property of the document and reports
// whether there is one. It reports false without error when the closing
// brace of the document is reached. Reserved fields are skipped.
func (r *Reader) MoveNext() (bool, error) {
	if err := r.check("MoveNext", readStarted, readHasValue); err != nil {
		return false, err
	}
	for {
		tok, err := r.next()
		if err != nil {
			return false, r.fail(err)
		}
		switch tok.Kind() {
		case KindEndObject:
			r.name, r.value = "", nil
			r.state = readDone
			return false, nil
		case KindString:
			// OK, a field name
		default:
			return false, r.fail(formatErrorf(`property name or "}"`, describe(tok), ""))
		}

		name := tok.StringValue()
		if _, err := r.expect(KindColon); err != nil {
			return false, r.fail(err)
		}
		if r.reserved[name] {
			if err := r.skipField(name); err != nil {
				return false, r.fail(err)
			}
			continue
		}

		if _, err := r.expect(KindBeginObject); err != nil {
			return false, r.fail(fmt.Errorf("property %q: %w", name, err))
		}
		v, err := r.readTypedValue()
		if err != nil {
			return false, r.fail(fmt.Errorf("property %q: %w", name, err))
		}
		if err := r.endMember(); err != nil {
			return false, r.fail(err)
		}
		r.name, r.value = name, v
		r.state = readHasValue
		return true, nil
	}
}

// CurrentName returns the name of the current property.
func (r *Reader) CurrentName() (string, error) {
	if err := r.check("CurrentName", readHasValue); err != nil {
		return "", err
	}
	return r.name, nil
}

// CurrentValue returns the value of the current property.
func (r *Reader) CurrentValue() (Value, error) {
	if err := r.check("CurrentValue", readHasValue); err != nil {
		return nil, err
	}
	return r.value, nil
}

// Metadata returns the scalar values of the reserved fields skipped so far,
// keyed by field name. String fields have values of type string, numbers
// float64, and Booleans bool; null is reported as nil. Reserved fields whose
// values are objects or arrays are skipped but not recorded.
func (r *Reader) Metadata() map[string]any { return maps.Clone(r.meta) }

// End verifies that the document is complete and that no input follows it.
// It is valid only after MoveNext has reported false.
func (r *Reader) End() error {
	if err := r.check("End", readDone); err != nil {
		return err
	}
	if r.hasPending {
		return r.fail(formatErrorf("end of input", describe(r.pending), ""))
	}
	if err := r.s.Next(); err == nil {
		return r.fail(formatErrorf("end of input", describe(r.s.Token()), ""))
	} else if err != io.EOF {
		return r.fail(err)
	}
	r.state = readEnded
	return nil
}

// Close releases r. Close is idempotent and always succeeds. After Close,
// every other method reports ErrDisposed.
func (r *Reader) Close() error {
	r.state = readClosed
	r.name, r.value = "", nil
	r.hasPending = false
	return nil
}

// readTypedValue reads the members of a typed value object, whose opening
// brace has been consumed, through its closing brace.
func (r *Reader) readTypedValue() (Value, error) {
	if err := r.expectName("$t"); err != nil {
		return nil, err
	}
	if _, err := r.expect(KindColon); err != nil {
		return nil, err
	}
	tok, err := r.expect(KindNumber)
	if err != nil {
		return nil, err
	}
	code, ok := integral(tok.Float64(), 0, numEdmTypes-1)
	if !ok {
		if _, isInt := integral(tok.Float64(), -1<<53, 1<<53); isInt {
			return nil, formatErrorf("a known EDM type code", tok.Text(), "")
		}
		return nil, formatErrorf("an integer EDM type code", tok.Text(), "")
	}
	typ := EdmType(code)

	if _, err := r.expect(KindComma); err != nil {
		return nil, err
	}
	if err := r.expectName("$v"); err != nil {
		return nil, err
	}
	if _, err := r.expect(KindColon); err != nil {
		return nil, err
	}
	vtok, err := r.next()
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(typ, vtok)
	if err != nil {
		return nil, err
	}
	if _, err := r.expect(KindEndObject); err != nil {
		return nil, err
	}
	return v, nil
}

// skipField consumes the value of a reserved field and its separator.
func (r *Reader) skipField(name string) error {
	tok, err := r.next()
	if err != nil {
		return err
	}
	switch tok.Kind() {
	case KindString:
		r.meta[name] = tok.StringValue()
	case KindNumber:
		r.meta[name] = tok.Float64()
	case KindBoolean:
		r.meta[name] = tok.Bool()
	case KindNull:
		r.meta[name] = nil
	case KindBeginObject, KindBeginArray:
		if err := r.skipNested(tok.Kind()); err != nil {
			return err
		}
	default:
		return formatErrorf("a value", describe(tok), "reserved field %q", name)
	}
	r.log.WithField("field", name).Debug("skipped reserved field")
	return r.endMember()
}

// skipNested consumes the members of the object or array opened by a token
// of kind open, through its closing token. Object members must be a string
// name, a colon and a value; members are separated by commas, and a trailing
// comma before the close is tolerated.
func (r *Reader) skipNested(open Kind) error {
	closer := closerOf(open)
	tok, err := r.next()
	if err != nil {
		return err
	}
	for tok.Kind() != closer {
		if open == KindBeginObject {
			if tok.Kind() != KindString {
				return formatErrorf("a string name", describe(tok), "nested object")
			}
			if _, err := r.expect(KindColon); err != nil {
				return err
			}
			if tok, err = r.next(); err != nil {
				return err
			}
		}
		if err := r.skipValue(tok); err != nil {
			return err
		}

		if tok, err = r.next(); err != nil {
			return err
		}
		switch tok.Kind() {
		case closer:
		case KindComma:
			if tok, err = r.next(); err != nil {
				return err
			}
		default:
			return formatErrorf(fmt.Sprintf(`"," or %v`, closer), describe(tok), "")
		}
	}
	return nil
}

// skipValue consumes the rest of the value that begins with tok.
func (r *Reader) skipValue(tok Token) error {
	switch k := tok.Kind(); k {
	case KindString, KindNumber, KindBoolean, KindNull:
		return nil
	case KindBeginObject, KindBeginArray:
		return r.skipNested(k)
	}
	return formatErrorf("a value", describe(tok), "")
}

func closerOf(open Kind) Kind {
	if open == KindBeginObject {
		return KindEndObject
	}
	return KindEndArray
}

// endMember consumes the separator after a member. A comma is consumed; a
// closing brace is pushed back for MoveNext to find.
func (r *Reader) endMember() error {
	tok, err := r.next()
	if err != nil {
		return err
	}
	switch tok.Kind() {
	case KindComma:
		return nil
	case KindEndObject:
		r.push(tok)
		return nil
	}
	return formatErrorf(`"," or "}"`, describe(tok), "")
}

// next returns the next token, either the pushed-back token or a fresh one
// from the scanner. The end of input is a format error, since every caller
// is in the middle of an object.
func (r *Reader) next() (Token, error) {
	if r.hasPending {
		r.hasPending = false
		return r.pending, nil
	}
	if err := r.s.Next(); err == io.EOF {
		return Token{}, formatErrorf("more input", "end of input", "")
	} else if err != nil {
		return Token{}, err
	}
	return r.s.Token(), nil
}

// push returns tok to the input, to be reported by the next call to next.
func (r *Reader) push(tok Token) {
	if r.hasPending {
		panic("tablejson: token pushback buffer is full")
	}
	r.pending, r.hasPending = tok, true
}

func (r *Reader) expect(kind Kind) (Token, error) {
	tok, err := r.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind() != kind {
		return Token{}, formatErrorf(kind, describe(tok), "")
	}
	return tok, nil
}

func (r *Reader) expectName(name string) error {
	tok, err := r.expect(KindString)
	if err != nil {
		return err
	}
	if got := tok.StringValue(); got != name {
		return formatErrorf(strconv.Quote(name), strconv.Quote(got), "")
	}
	return nil
}

func (r *Reader) check(op string, states ...readState) error {
	switch r.state {
	case readClosed:
		return disposedError(op)
	case readFailed:
		return r.err
	}
	for _, s := range states {
		if r.state == s {
			return nil
		}
	}
	return usageError(op, r.state)
}

func (r *Reader) fail(err error) error {
	r.log.WithFields(logrus.Fields{
		"state":  r.state.String(),
		"offset": r.s.Span().Pos,
	}).WithError(err).Debug("reader failed")
	r.state = readFailed
	r.err = err
	return err
}

// describe renders tok for an error message.
func describe(tok Token) string {
	switch tok.Kind() {
	case KindNumber, KindString, KindBoolean:
		return tok.Kind().String() + " " + tok.Text()
	}
	return tok.Kind().String()
}

// ReadProperties decodes all the properties of the document in text.
// A nil opts is equivalent to a zero ReaderOptions.
func ReadProperties(text string, opts *ReaderOptions) ([]Property, error) {
	props, _, err := readAll(NewReader(text, opts))
	return props, err
}

// readAll runs a complete Start/MoveNext/End cycle on r and closes it. It
// returns the properties and metadata of the document.
func readAll(r *Reader) ([]Property, map[string]any, error) {
	defer r.Close()
	if err := r.Start(); err != nil {
		return nil, nil, err
	}
	var props []Property
	for {
		ok, err := r.MoveNext()
		if err != nil {
			return nil, nil, err
		} else if !ok {
			break
		}
		props = append(props, Property{Name: r.name, Value: r.value})
	}
	if err := r.End(); err != nil {
		return nil, nil, err
	}
	return props, r.Metadata(), nil
}

// ReadDocument decodes all the properties of the document in text, and also
// returns the values of its reserved fields as reported by Reader.Metadata.
func ReadDocument(text []byte, opts *ReaderOptions) ([]Property, map[string]any, error) {
	return readAll(NewReaderBytes(text, opts))
}
