package tablejson

import (
	"fmt"

	"go4.org/mem"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%d:%d-%d", loc.First.Line, loc.First.Column, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}

// locate computes the location of span within text.
func locate(text mem.RO, span Span) Location {
	pos := func(off int) LineCol {
		lc := LineCol{Line: 1}
		for i := 0; i < off && i < text.Len(); i++ {
			if text.At(i) == '\n' {
				lc.Line++
				lc.Column = 0
			} else {
				lc.Column++
			}
		}
		return lc
	}
	return Location{Span: span, First: pos(span.Pos), Last: pos(span.End)}
}
