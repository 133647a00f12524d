// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements a forward-only character cursor over source text.
//
// The cursor tracks a current "atom", the span of text consumed since the
// last call to MarkAtom. Scanners use the atom to recover the lexeme of the
// token being scanned.
package cursor

import (
	"errors"
	"strconv"

	"go4.org/mem"
)

// A Cursor is a position in an immutable text buffer.
type Cursor struct {
	text  mem.RO
	pos   int // offset of the next unconsumed character
	start int // offset of the current atom
	last  int // width of the last consumed character, 0 if not undoable
}

// New constructs a cursor positioned at the beginning of text.
func New(text mem.RO) *Cursor { return &Cursor{text: text} }

// AtEnd reports whether all of the input has been consumed.
func (c *Cursor) AtEnd() bool { return c.pos >= c.text.Len() }

// Offset reports the byte offset of the next unconsumed character.
func (c *Cursor) Offset() int { return c.pos }

// Text returns the complete input of c.
func (c *Cursor) Text() mem.RO { return c.text }

func (c *Cursor) peek() (rune, int) {
	if c.AtEnd() {
		return 0, 0
	}
	return mem.DecodeRune(c.text.SliceFrom(c.pos))
}

// Next consumes and returns the next character. It reports false at the end
// of the input.
func (c *Cursor) Next() (rune, bool) {
	r, n := c.peek()
	if n == 0 {
		c.last = 0
		return 0, false
	}
	c.pos += n
	c.last = n
	return r, true
}

// PeekMatches reports whether the next character satisfies f without
// consuming it. It reports false at the end of the input.
func (c *Cursor) PeekMatches(f func(rune) bool) bool {
	r, n := c.peek()
	return n != 0 && f(r)
}

// ConsumeIf consumes the next character if it equals ch, and reports whether
// it did so.
func (c *Cursor) ConsumeIf(ch rune) bool {
	return c.consumeIf(func(r rune) bool { return r == ch })
}

// ConsumeIfEither consumes the next character if it equals c1 or c2, and
// reports whether it did so.
func (c *Cursor) ConsumeIfEither(c1, c2 rune) bool {
	return c.consumeIf(func(r rune) bool { return r == c1 || r == c2 })
}

func (c *Cursor) consumeIf(f func(rune) bool) bool {
	r, n := c.peek()
	if n == 0 || !f(r) {
		return false
	}
	c.pos += n
	c.last = n
	return true
}

// ConsumeWhile consumes characters for which f reports expected, and returns
// the number of characters consumed.
func (c *Cursor) ConsumeWhile(f func(rune) bool, expected bool) int {
	var nc int
	for {
		r, n := c.peek()
		if n == 0 || f(r) != expected {
			return nc
		}
		c.pos += n
		c.last = n
		nc++
	}
}

// UndoOne retracts the most recently consumed character, provided it belongs
// to the current atom. Otherwise UndoOne does nothing. At most one character
// can be retracted between consuming calls.
func (c *Cursor) UndoOne() {
	if c.last == 0 || c.pos-c.last < c.start {
		return
	}
	c.pos -= c.last
	c.last = 0
}

// MarkAtom starts a new atom at the current position.
func (c *Cursor) MarkAtom() { c.start = c.pos; c.last = 0 }

// AtomStart reports the offset at which the current atom begins.
func (c *Cursor) AtomStart() int { return c.start }

// AtomLen reports the length in bytes of the current atom.
func (c *Cursor) AtomLen() int { return c.pos - c.start }

// Atom returns a view of the current atom.
func (c *Cursor) Atom() mem.RO { return c.text.Slice(c.start, c.pos) }

// AtomText returns a copy of the text of the current atom.
func (c *Cursor) AtomText() string { return c.Atom().StringCopy() }

// ParseAtomDecimal parses the current atom as a decimal floating-point
// number. Values too large in magnitude parse as infinities. It reports false
// if the atom is not a well-formed number.
func (c *Cursor) ParseAtomDecimal() (float64, bool) {
	v, err := strconv.ParseFloat(c.AtomText(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// ParseAtomHex parses the current atom as a hexadecimal integer with a 0x or
// 0X prefix. It reports false if the atom is malformed or does not fit in 64
// bits.
func (c *Cursor) ParseAtomHex() (uint64, bool) {
	atom := c.Atom()
	if atom.Len() < 3 || atom.At(0) != '0' || (atom.At(1) != 'x' && atom.At(1) != 'X') {
		return 0, false
	}
	v, err := strconv.ParseUint(atom.SliceFrom(2).StringCopy(), 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
