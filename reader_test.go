// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson_test

import (
	"errors"
	"testing"
	"time"

	"github.com/creachadair/tablejson"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const allTypesDoc = `{
  "s": {"$t": 0, "$v": "hi"},
  "b": {"$t": 1, "$v": "\u0000ÿA"},
  "t": {"$t": 2, "$v": true},
  "d": {"$t": 3, "$v": 1000},
  "f": {"$t": 4, "$v": -3.5e2},
  "g": {"$t": 5, "$v": "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
  "i": {"$t": 6, "$v": 0x1F},
  "l": {"$t": 7, "$v": "-00000000000000000005"},
  'q': {'$t': 0, '$v': 'it''s'},
  "n": {"$t": 6, "$v": null},
}`

func TestReadProperties(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tablejson.Property
	}{
		{"Empty", `{}`, nil},
		{"EmptySpace", "  {\n}\n ", nil},
		{"AllTypes", allTypesDoc, []tablejson.Property{
			{Name: "s", Value: tablejson.String("hi")},
			{Name: "b", Value: tablejson.Binary{0x00, 0xff, 'A'}},
			{Name: "t", Value: tablejson.Boolean(true)},
			{Name: "d", Value: tablejson.DateTime(time.UnixMilli(1000).UTC())},
			{Name: "f", Value: tablejson.Double(-350)},
			{Name: "g", Value: tablejson.Guid(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))},
			{Name: "i", Value: tablejson.Int32(31)},
			{Name: "l", Value: tablejson.Int64(-5)},
			{Name: "q", Value: tablejson.String("it's")},
			{Name: "n", Value: tablejson.Null(tablejson.EdmInt32)},
		}},
		{"ReservedSkipped", `{"_etag": "x", "id": "y", "realProp": {"$t": 0, "$v": "hi"}}`,
			[]tablejson.Property{{Name: "realProp", Value: tablejson.String("hi")}},
		},
		{"ReservedNested", `{"_self": {"a": [1, {"b": []}], "c": {}}, "x": {"$t": 2, "$v": false}, "_ts": 5}`,
			[]tablejson.Property{{Name: "x", Value: tablejson.Boolean(false)}},
		},
		{"ReservedTrailingCommas", `{"_self": {"a": [1, 2,], "b": {},}, "x": {"$t": 6, "$v": 3}}`,
			[]tablejson.Property{{Name: "x", Value: tablejson.Int32(3)}},
		},
		{"OnlyReserved", `{"$pk": "p", "id": "r"}`, nil},
		{"DuplicateNames", `{"a": {"$t": 6, "$v": 1}, "a": {"$t": 6, "$v": 2}}`, []tablejson.Property{
			{Name: "a", Value: tablejson.Int32(1)},
			{Name: "a", Value: tablejson.Int32(2)},
		}},
		{"Extremes", `{
  "min32": {"$t": 6, "$v": -2147483648},
  "max32": {"$t": 6, "$v": 2147483647},
  "min64": {"$t": 7, "$v": "-09223372036854775808"},
  "max64": {"$t": 7, "$v": "09223372036854775807"},
  "nan": {"$t": 4, "$v": NaN},
  "inf": {"$t": 4, "$v": -Infinity},
  "epoch": {"$t": 3, "$v": -1}
}`, []tablejson.Property{
			{Name: "min32", Value: tablejson.Int32(-2147483648)},
			{Name: "max32", Value: tablejson.Int32(2147483647)},
			{Name: "min64", Value: tablejson.Int64(-9223372036854775808)},
			{Name: "max64", Value: tablejson.Int64(9223372036854775807)},
			{Name: "nan", Value: tablejson.Double(nan)},
			{Name: "inf", Value: tablejson.Double(negInf)},
			{Name: "epoch", Value: tablejson.DateTime(time.UnixMilli(-1).UTC())},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tablejson.ReadProperties(tc.input, nil)
			if err != nil {
				t.Fatalf("ReadProperties failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, got, equateDouble, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Properties (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestReadProperties_errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{``, tablejson.ErrFormat},
		{`[`, tablejson.ErrFormat},
		{`{`, tablejson.ErrFormat},
		{`{"$t": 99, "$v": 1}`, tablejson.ErrFormat},
		{`{"a": {"$t": 99, "$v": 1}}`, tablejson.ErrFormat},
		{`{"a": {"$t": -1, "$v": 1}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 1.5, "$v": 1}}`, tablejson.ErrFormat},
		{`{"a": {"$t": "6", "$v": 1}}`, tablejson.ErrFormat},
		{`{"a": 1}`, tablejson.ErrFormat},
		{`{"a": {"$v": 1, "$t": 6}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": 1, "x": 2}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": 1}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": 1} "b": {"$t": 6, "$v": 2}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": 1}} {}`, tablejson.ErrFormat},
		{`{} {}`, tablejson.ErrFormat},
		{`{, }`, tablejson.ErrFormat},
		{`{1: {"$t": 6, "$v": 1}}`, tablejson.ErrFormat},
		{`{"a" {"$t": 6, "$v": 1}}`, tablejson.ErrFormat},
		{`{"_self": [1, 2}}`, tablejson.ErrFormat},
		{`{"_self": ]}`, tablejson.ErrFormat},
		{`{"id": {1 2 3}, "a": {"$t": 0, "$v": "x"}}`, tablejson.ErrFormat},
		{`{"id": {"k" 1}}`, tablejson.ErrFormat},
		{`{"id": {"k": }}`, tablejson.ErrFormat},
		{`{"id": {"k": 1 "j": 2}}`, tablejson.ErrFormat},
		{`{"id": [1 2]}`, tablejson.ErrFormat},
		{`{"id": [, 1]}`, tablejson.ErrFormat},
		{`{"id": [1, :]}`, tablejson.ErrFormat},
		{`{"id": {"k": [1}}`, tablejson.ErrFormat},

		// Values that do not match their declared types.
		{`{"a": {"$t": 0, "$v": 1}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 1, "$v": "Ā"}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 2, "$v": 1}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 3, "$v": 1.5}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 3, "$v": "1000"}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 4, "$v": "1"}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 5, "$v": "not-a-guid"}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": "12"}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": 1.5}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": 3000000000}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 6, "$v": NaN}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 7, "$v": 12}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 7, "$v": "x12"}}`, tablejson.ErrFormat},
		{`{"a": {"$t": 7, "$v": "99999999999999999999"}}`, tablejson.ErrFormat},

		// Lexical errors.
		{`{bogus}`, tablejson.ErrScan},
		{`{"a": {"$t": 0, "$v": "unterminated}}`, tablejson.ErrScan},
		{`{"a": {"$t": 0, "$v": "ok"}} extra`, tablejson.ErrScan},
		{`{"_etag": 0xZZ}`, tablejson.ErrScan},
	}
	for _, tc := range tests {
		got, err := tablejson.ReadProperties(tc.input, nil)
		if !errors.Is(err, tc.want) {
			t.Errorf("ReadProperties(%#q): got (%v, %v), want %v", tc.input, got, err, tc.want)
			continue
		}
		t.Logf("ReadProperties(%#q): got expected error: %v", tc.input, err)
		if got != nil {
			t.Errorf("ReadProperties(%#q): got properties %v on error", tc.input, got)
		}
	}
}

func TestReader_formatError(t *testing.T) {
	_, err := tablejson.ReadProperties(`{"a": 1}`, nil)
	var ferr *tablejson.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("ReadProperties: got %v, want *FormatError", err)
	}
	if ferr.Expected != `"{"` || ferr.Actual != "number 1" {
		t.Errorf("FormatError: got expected %q, actual %q", ferr.Expected, ferr.Actual)
	}
}

func TestReader_states(t *testing.T) {
	const doc = `{"a": {"$t": 0, "$v": "x"}}`
	isUsage := func(t *testing.T, op string, err error) {
		t.Helper()
		var uerr *tablejson.UsageError
		if !errors.As(err, &uerr) || !errors.Is(err, tablejson.ErrUsage) {
			t.Errorf("%s: got %v, want usage error", op, err)
		} else if errors.Is(err, tablejson.ErrDisposed) {
			t.Errorf("%s: got %v, want not disposed", op, err)
		}
	}

	r := tablejson.NewReader(doc, nil)
	_, err := r.CurrentValue()
	isUsage(t, "CurrentValue before Start", err)
	_, err = r.MoveNext()
	isUsage(t, "MoveNext before Start", err)
	isUsage(t, "End before Start", r.End())

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	isUsage(t, "Start twice", r.Start())
	_, err = r.CurrentName()
	isUsage(t, "CurrentName before MoveNext", err)

	if ok, err := r.MoveNext(); !ok || err != nil {
		t.Fatalf("MoveNext: got (%v, %v), want (true, nil)", ok, err)
	}
	if name, err := r.CurrentName(); err != nil || name != "a" {
		t.Errorf("CurrentName: got (%q, %v), want a", name, err)
	}
	if v, err := r.CurrentValue(); err != nil || v != tablejson.String("x") {
		t.Errorf("CurrentValue: got (%v, %v), want x", v, err)
	}
	isUsage(t, "End before done", r.End())

	if ok, err := r.MoveNext(); ok || err != nil {
		t.Fatalf("MoveNext: got (%v, %v), want (false, nil)", ok, err)
	}
	_, err = r.CurrentValue()
	isUsage(t, "CurrentValue after done", err)
	_, err = r.MoveNext()
	isUsage(t, "MoveNext after done", err)

	if err := r.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	isUsage(t, "End twice", r.End())

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := r.MoveNext(); !errors.Is(err, tablejson.ErrDisposed) || !errors.Is(err, tablejson.ErrUsage) {
		t.Errorf("MoveNext after Close: got %v, want %v", err, tablejson.ErrDisposed)
	}
	if _, err := r.CurrentName(); !errors.Is(err, tablejson.ErrDisposed) {
		t.Errorf("CurrentName after Close: got %v, want %v", err, tablejson.ErrDisposed)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close again: unexpected error: %v", err)
	}
}

func TestReader_failedIsSticky(t *testing.T) {
	r := tablejson.NewReader(`{"a": 1, "b": {"$t": 6, "$v": 2}}`, nil)
	defer r.Close()
	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	_, err1 := r.MoveNext()
	if !errors.Is(err1, tablejson.ErrFormat) {
		t.Fatalf("MoveNext: got %v, want %v", err1, tablejson.ErrFormat)
	}
	if _, err2 := r.MoveNext(); err2 != err1 {
		t.Errorf("MoveNext after failure: got %v, want %v", err2, err1)
	}
	if _, err2 := r.CurrentName(); err2 != err1 {
		t.Errorf("CurrentName after failure: got %v, want %v", err2, err1)
	}
	if err2 := r.End(); err2 != err1 {
		t.Errorf("End after failure: got %v, want %v", err2, err1)
	}
}

func TestReadDocument(t *testing.T) {
	const doc = `{
  "$pk": "p",
  "id": "r",
  "_ts": 1700000000,
  "_etag": "\"0x1\"",
  "_attachments": "attachments/",
  "_rid": null,
  "_self": {"nested": [1, {"x": 2}]},
  "p": {"$t": 2, "$v": false}
}`
	props, meta, err := tablejson.ReadDocument([]byte(doc), nil)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	if diff := cmp.Diff([]tablejson.Property{{Name: "p", Value: tablejson.Boolean(false)}}, props); diff != "" {
		t.Errorf("Properties (-want, +got):\n%s", diff)
	}
	wantMeta := map[string]any{
		"$pk":          "p",
		"id":           "r",
		"_ts":          float64(1700000000),
		"_etag":        `"0x1"`,
		"_attachments": "attachments/",
		"_rid":         nil,
	}
	if diff := cmp.Diff(wantMeta, meta); diff != "" {
		t.Errorf("Metadata (-want, +got):\n%s", diff)
	}
}

func TestReader_customReserved(t *testing.T) {
	const doc = `{"skip": [1, 2], "id": {"$t": 0, "$v": "x"}}`

	t.Run("Custom", func(t *testing.T) {
		got, err := tablejson.ReadProperties(doc, &tablejson.ReaderOptions{Reserved: []string{"skip"}})
		if err != nil {
			t.Fatalf("ReadProperties failed: %v", err)
		}
		want := []tablejson.Property{{Name: "id", Value: tablejson.String("x")}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Properties (-want, +got):\n%s", diff)
		}
	})

	t.Run("None", func(t *testing.T) {
		// With nothing reserved, "skip" must be a typed property.
		_, err := tablejson.ReadProperties(doc, &tablejson.ReaderOptions{Reserved: []string{}})
		if !errors.Is(err, tablejson.ErrFormat) {
			t.Errorf("ReadProperties: got %v, want %v", err, tablejson.ErrFormat)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		want := []string{"$pk", "id", "_rid", "_self", "_etag", "_attachments", "_ts"}
		got := tablejson.DefaultReserved()
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DefaultReserved (-want, +got):\n%s", diff)
		}
		got[0] = "changed"
		if tablejson.DefaultReserved()[0] != "$pk" {
			t.Error("DefaultReserved returned a shared slice")
		}
	})
}

func TestReader_logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts := &tablejson.ReaderOptions{Logger: logger}

	if _, err := tablejson.ReadProperties(`{"_etag": "x", "a": {"$t": 0, "$v": "y"}}`, opts); err != nil {
		t.Fatalf("ReadProperties failed: %v", err)
	}
	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("Got %d log entries, want 1", len(entries))
	}
	if e := entries[0]; e.Message != "skipped reserved field" || e.Data["field"] != "_etag" {
		t.Errorf("Log entry: got %q %v", e.Message, e.Data)
	}
	hook.Reset()

	if _, err := tablejson.ReadProperties(`{"a": 1}`, opts); err == nil {
		t.Fatal("ReadProperties: got nil, want error")
	}
	if e := hook.LastEntry(); e == nil || e.Message != "reader failed" || e.Level != logrus.DebugLevel {
		t.Errorf("Log entry: got %+v, want reader failed", e)
	}
}
