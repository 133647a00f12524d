// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

type writeState byte

const (
	writeInitial writeState = iota // before Start
	writeName                      // expecting a name, or End
	writeValue                     // expecting a value
	writeDone                      // End has succeeded
	writeFailed                    // an error has been reported
	writeClosed                    // Close has been called
)

var writeStateStr = [...]string{
	writeInitial: "initial",
	writeName:    "name",
	writeValue:   "value",
	writeDone:    "done",
	writeFailed:  "failed",
	writeClosed:  "closed",
}

func (s writeState) String() string { return writeStateStr[s] }

// A Writer encodes the typed properties of a single entity document.
//
// The methods of a Writer must be called in order: Start, then alternating
// calls to WriteName and WriteValue, then End. Calling a method out of order
// reports a *UsageError. Output is buffered; call Flush or Close to deliver
// it to the underlying writer. The Writer does not close the underlying
// writer.
//
// A Writer is not safe for concurrent use by multiple goroutines.
type Writer struct {
	w     *bufio.Writer
	log   logrus.FieldLogger
	state writeState
	err   error
	nf    int    // fields written in the current object
	buf   []byte // scratch space for encoding
}

// NewWriter constructs a Writer that writes a document to w.
// A nil opts is equivalent to a zero WriterOptions.
func NewWriter(w io.Writer, opts *WriterOptions) *Writer {
	return &Writer{w: bufio.NewWriter(w), log: opts.logger()}
}

// Start writes the opening brace of the document.
func (w *Writer) Start() error {
	if err := w.check("Start", writeInitial); err != nil {
		return err
	}
	if err := w.emit(append(w.buf[:0], '{')); err != nil {
		return err
	}
	w.state = writeName
	return nil
}

// WriteName writes the name of the next property. It must be followed by a
// call to WriteValue.
func (w *Writer) WriteName(name string) error {
	if err := w.check("WriteName", writeName); err != nil {
		return err
	}
	if err := w.emit(w.appendName(w.buf[:0], name)); err != nil {
		return err
	}
	w.state = writeValue
	return nil
}

// WriteValue writes the typed value of the property most recently named by
// WriteName.
func (w *Writer) WriteValue(v Value) error {
	if err := w.check("WriteValue", writeValue); err != nil {
		return err
	}
	if v == nil {
		return usageError("WriteValue", nilValue{})
	} else if t := v.Type(); !t.Valid() {
		return w.fail(formatErrorf("a known EDM type", t, "null value"))
	}
	buf := append(w.buf[:0], `{"$t":`...)
	buf = strconv.AppendInt(buf, int64(v.Type()), 10)
	buf = append(buf, `,"$v":`...)
	buf = appendValue(buf, v)
	buf = append(buf, '}')
	if err := w.emit(buf); err != nil {
		return err
	}
	w.state = writeName
	return nil
}

// WriteMetadata writes an untyped field with the given name and value, for
// the system fields of a stored document (such as its partition key). The
// value must be a string, a bool, an integer or float64, or nil. WriteMetadata
// is valid wherever WriteName is, and leaves the writer ready for another
// name.
func (w *Writer) WriteMetadata(name string, value any) error {
	if err := w.check("WriteMetadata", writeName); err != nil {
		return err
	}
	buf := w.appendName(w.buf[:0], name)
	switch v := value.(type) {
	case string:
		buf = appendQuoted(buf, v)
	case bool:
		buf = strconv.AppendBool(buf, v)
	case int:
		buf = strconv.AppendInt(buf, int64(v), 10)
	case int64:
		buf = strconv.AppendInt(buf, v, 10)
	case float64:
		buf = encodeDouble(buf, Double(v))
	case nil:
		buf = append(buf, "null"...)
	default:
		return w.fail(formatErrorf("a scalar value", fmt.Sprintf("%T", value), "metadata field %q", name))
	}
	if err := w.emit(buf); err != nil {
		return err
	}
	w.log.WithField("field", name).Debug("wrote metadata field")
	return nil
}

// End writes the closing brace of the document. It is not valid between a
// call to WriteName and the corresponding WriteValue.
func (w *Writer) End() error {
	if err := w.check("End", writeName); err != nil {
		return err
	}
	if err := w.emit(append(w.buf[:0], '}')); err != nil {
		return err
	}
	w.state = writeDone
	return nil
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.check("Flush", writeInitial, writeName, writeValue, writeDone); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return w.fail(err)
	}
	return nil
}

// Close flushes any buffered output and releases w. Close is idempotent:
// calls after the first do nothing and report nil. After Close, every other
// method reports ErrDisposed.
func (w *Writer) Close() error {
	if w.state == writeClosed {
		return nil
	}
	var err error
	if w.state != writeFailed {
		err = w.w.Flush()
	}
	w.state = writeClosed
	return err
}

func (w *Writer) appendName(buf []byte, name string) []byte {
	if w.nf > 0 {
		buf = append(buf, ',')
	}
	w.nf++
	buf = appendQuoted(buf, name)
	return append(buf, ':')
}

func (w *Writer) emit(buf []byte) error {
	w.buf = buf
	if _, err := w.w.Write(buf); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *Writer) check(op string, states ...writeState) error {
	switch w.state {
	case writeClosed:
		return disposedError(op)
	case writeFailed:
		return w.err
	}
	for _, s := range states {
		if w.state == s {
			return nil
		}
	}
	return usageError(op, w.state)
}

func (w *Writer) fail(err error) error {
	w.log.WithField("state", w.state.String()).WithError(err).Debug("writer failed")
	w.state = writeFailed
	w.err = err
	return err
}

type nilValue struct{}

func (nilValue) String() string { return "nil value" }

// WriteProperties writes a complete document containing props to w.
// A nil opts is equivalent to a zero WriterOptions.
func WriteProperties(w io.Writer, props []Property, opts *WriterOptions) error {
	ew := NewWriter(w, opts)
	if err := writeAll(ew, nil, props); err != nil {
		ew.Close()
		return err
	}
	return ew.Close()
}

// EncodeProperties returns the encoding of a document containing props.
func EncodeProperties(props []Property) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, props, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// A MetaField is an untyped system field of a stored document. Its value
// has one of the types accepted by Writer.WriteMetadata.
type MetaField struct {
	Name  string
	Value any
}

// writeAll writes a complete document to w: the metadata fields in order,
// followed by props.
func writeAll(w *Writer, meta []MetaField, props []Property) error {
	if err := w.Start(); err != nil {
		return err
	}
	for _, m := range meta {
		if err := w.WriteMetadata(m.Name, m.Value); err != nil {
			return err
		}
	}
	for _, p := range props {
		if err := w.WriteName(p.Name); err != nil {
			return err
		}
		if err := w.WriteValue(p.Value); err != nil {
			return err
		}
	}
	return w.End()
}

// WriteDocument writes a complete document to w consisting of the given
// metadata fields followed by props.
func WriteDocument(w io.Writer, meta []MetaField, props []Property, opts *WriterOptions) error {
	ew := NewWriter(w, opts)
	if err := writeAll(ew, meta, props); err != nil {
		ew.Close()
		return err
	}
	return ew.Close()
}
