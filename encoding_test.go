// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tablejson_test

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/creachadair/tablejson"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{"a\t\nb\r\f\b", `"a\t\nb\r\f\b"`},
		{"\x00\x01\x1f\x7f", `"\u0000\u0001\u001f\u007f"`},
		{`a "b" \c`, `"a \"b\" \\c"`},
		{"it's a/b", `"it's a/b"`},
		{"é日本", `"é日本"`},
		{"\u00a0", `"\u00a0"`},
		{"\u00ad", `"\u00ad"`},
		{"\u2028\u2029", `"\u2028\u2029"`},
		{"\ufffd", `"\ufffd"`},
		{"😀", `"😀"`},
		{"\U000F0000", `"\udb80\udc00"`},
		{"\U0010FFFF", `"\udbff\udfff"`},
	}
	for _, tc := range tests {
		got := tablejson.Quote(tc.input)
		if got != tc.want {
			t.Errorf("Quote(%q): got %#q, want %#q", tc.input, got, tc.want)
		}
		dec, err := tablejson.Unquote(got)
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", got, err)
		} else if dec != tc.input {
			t.Errorf("Unquote(%#q): got %q, want %q", got, dec, tc.input)
		}
	}
}

func TestEscape_invalidUTF8(t *testing.T) {
	// Invalid bytes are not text, and escape as the replacement character.
	if got, want := tablejson.Escape("a\xffb"), `a\ufffdb`; got != want {
		t.Errorf("Escape: got %#q, want %#q", got, want)
	}

	// The scanner does not accept them in a string literal.
	s := tablejson.NewScanner("\"a\xffb\"")
	if err := s.Next(); !errors.Is(err, tablejson.ErrScan) {
		t.Errorf("Next: got %v, want %v", err, tablejson.ErrScan)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
		ok          bool
	}{
		{`""`, "", true},
		{`''`, "", true},
		{`"ok"`, "ok", true},
		{`'it\'s'`, "it's", true},
		{`"\/\\\""`, `/\"`, true},
		{`"\u00e9\u00E9"`, "éé", true},
		{`"\ud83d\ude00"`, "😀", true},
		{`"\udbff\udfff"`, "\U0010FFFF", true},
		{`"\ud800x"`, "\ufffdx", true},
		{`"\udc00\ud800"`, "\ufffd\ufffd", true},

		{``, "", false},
		{`"`, "", false},
		{`"abc`, "", false},
		{`'abc"`, "", false},
		{`abc`, "", false},
		{`"a\"`, "", false},
		{`"\q"`, "", false},
		{`"\u12"`, "", false},
		{`"\u12x4"`, "", false},
	}
	for _, tc := range tests {
		got, err := tablejson.Unquote(tc.input)
		if tc.ok && err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", tc.input, err)
		} else if !tc.ok && err == nil {
			t.Errorf("Unquote(%#q): got %q, want error", tc.input, got)
		} else if got != tc.want {
			t.Errorf("Unquote(%#q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func FuzzEscape(f *testing.F) {
	for _, s := range []string{
		"", "plain", "tab\there", `quote " and \ slash`, "\x00\x1f\x7f",
		"é日本😀", "\u00a0", "\U000F0000", "\ufffd",
	} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		esc := tablejson.Escape(s)
		if !utf8.ValidString(esc) {
			t.Errorf("Escape(%q): invalid UTF-8 %q", s, esc)
		}
		got, err := tablejson.Unescape(esc)
		if err != nil {
			t.Fatalf("Unescape(%q): unexpected error: %v", esc, err)
		}
		if got != s {
			t.Errorf("Unescape(Escape(%q)): got %q", s, got)
		}

		// The quoted form must scan as a single string token with the same value.
		sc := tablejson.NewScanner(tablejson.Quote(s))
		if err := sc.Next(); err != nil {
			t.Fatalf("Scan %q: unexpected error: %v", s, err)
		}
		if v := sc.Token().StringValue(); v != s {
			t.Errorf("Scan %q: got %q", s, v)
		}
	})
}
