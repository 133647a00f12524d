// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package textconv_test

import (
	"testing"
	"time"

	"github.com/creachadair/tablejson/internal/textconv"
	"github.com/google/go-cmp/cmp"
)

func TestEpochMillis(t *testing.T) {
	tests := []struct {
		ms   int64
		want time.Time
	}{
		{0, textconv.Epoch},
		{1000, time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)},
		{-1, time.Date(1969, 12, 31, 23, 59, 59, 999e6, time.UTC)},
		{1700000000123, time.Date(2023, 11, 14, 22, 13, 20, 123e6, time.UTC)},
	}
	for _, tc := range tests {
		got := textconv.FromEpochMillis(tc.ms)
		if !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Errorf("FromEpochMillis(%d): got %v, want %v", tc.ms, got, tc.want)
		}
		if back := textconv.ToEpochMillis(got); back != tc.ms {
			t.Errorf("ToEpochMillis(%v): got %d, want %d", got, back, tc.ms)
		}
	}

	// Sub-millisecond precision is discarded.
	ts := time.Date(2000, 1, 1, 0, 0, 0, 1_999_999, time.UTC)
	if got, want := textconv.ToEpochMillis(ts), int64(946684800001); got != want {
		t.Errorf("ToEpochMillis(%v): got %d, want %d", ts, got, want)
	}
}

func TestBytes(t *testing.T) {
	data := []byte{0, 1, 'A', 0x7f, 0x80, 0xe9, 0xff}
	s := textconv.BytesToString(data)
	if want := "\x00\x01A\x7f\u0080éÿ"; s != want {
		t.Errorf("BytesToString: got %q, want %q", s, want)
	}
	got, ok := textconv.StringToBytes(s)
	if !ok {
		t.Fatalf("StringToBytes(%q) failed", s)
	}
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("StringToBytes (-want, +got):\n%s", diff)
	}

	if got, ok := textconv.StringToBytes("aĀ"); ok {
		t.Errorf("StringToBytes: got %v, want failure", got)
	}
	if got, ok := textconv.StringToBytes(""); !ok || len(got) != 0 {
		t.Errorf("StringToBytes(empty): got (%v, %v)", got, ok)
	}
}

func TestClasses(t *testing.T) {
	tests := []struct {
		ch                           rune
		hex, digit, ident, space, vb bool
	}{
		{'0', true, true, true, false, true},
		{'f', true, false, true, false, true},
		{'G', false, false, true, false, true},
		{'_', false, false, true, false, true},
		{'-', false, false, false, false, true},
		{' ', false, false, false, true, true},
		{'\t', false, false, false, true, false},
		{'\u00a0', false, false, false, true, false},
		{'"', false, false, false, false, false},
		{'\\', false, false, false, false, false},
		{'é', false, false, true, false, true},
		{'😀', false, false, false, false, true},
		{'\ufffd', false, false, false, false, false},
		{'\U000F0000', false, false, false, false, false},
	}
	for _, tc := range tests {
		if got := textconv.IsHexDigit(tc.ch); got != tc.hex {
			t.Errorf("IsHexDigit(%q): got %v, want %v", tc.ch, got, tc.hex)
		}
		if got := textconv.IsDigit(tc.ch); got != tc.digit {
			t.Errorf("IsDigit(%q): got %v, want %v", tc.ch, got, tc.digit)
		}
		if got := textconv.IsIdentRune(tc.ch); got != tc.ident {
			t.Errorf("IsIdentRune(%q): got %v, want %v", tc.ch, got, tc.ident)
		}
		if got := textconv.IsSpace(tc.ch); got != tc.space {
			t.Errorf("IsSpace(%q): got %v, want %v", tc.ch, got, tc.space)
		}
		if got := textconv.IsVerbatim(tc.ch); got != tc.vb {
			t.Errorf("IsVerbatim(%q): got %v, want %v", tc.ch, got, tc.vb)
		}
	}
}
