// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/creachadair/tablejson"
	"github.com/creachadair/tablejson/entity"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (t *tool) readerOptions() *tablejson.ReaderOptions {
	return &tablejson.ReaderOptions{Reserved: t.cfg.Reserved, Logger: t.log}
}

func (t *tool) runScan(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	tw := t.newTable(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"Kind", "Text", "Span", "Location"})

	s := tablejson.NewScannerBytes(data)
	var n int
	for s.Next() == nil {
		tok := s.Token()
		span := s.Span()
		tw.AppendRow(table.Row{tok.Kind(), tok.Text(), fmt.Sprintf("%d-%d", span.Pos, span.End), s.Location()})
		n++
	}
	tw.Render()
	t.log.WithField("tokens", n).Debug("scan complete")
	if err := s.Err(); err != io.EOF {
		return err
	}
	return nil
}

func (t *tool) runDecode(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	props, meta, err := tablejson.ReadDocument(data, t.readerOptions())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(meta) != 0 {
		mt := t.newTable(w)
		mt.AppendHeader(table.Row{"Field", "Value"})
		for _, name := range slices.Sorted(maps.Keys(meta)) {
			mt.AppendRow(table.Row{name, fmt.Sprintf("%v", meta[name])})
		}
		mt.Render()
	}

	pt := t.newTable(w)
	pt.AppendHeader(table.Row{"Name", "Type", "Value"})
	for _, p := range props {
		pt.AppendRow(table.Row{p.Name, p.Value.Type(), formatValue(p.Value)})
	}
	pt.Render()
	return nil
}

func (t *tool) runEncode(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	doc, err := parseDocSpec(args[0], data)
	if err != nil {
		return err
	}
	props, err := doc.properties()
	if err != nil {
		return err
	}

	var out []byte
	if doc.RowKey != "" {
		out, err = entity.Marshal(&entity.Entity{
			PartitionKey: doc.PartitionKey,
			RowKey:       doc.RowKey,
			Properties:   props,
		})
	} else {
		var buf bytes.Buffer
		err = tablejson.WriteProperties(&buf, props, &tablejson.WriterOptions{Logger: t.log})
		out = buf.Bytes()
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
	return nil
}

var errMismatch = errors.New("round trip changed the properties")

func (t *tool) runRoundTrip(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	props, _, err := tablejson.ReadDocument(data, t.readerOptions())
	if err != nil {
		return err
	}

	// The encoding is canonical, so two property lists are equal exactly
	// when their encodings are.
	enc1, err := tablejson.EncodeProperties(props)
	if err != nil {
		return err
	}
	again, err := tablejson.ReadProperties(string(enc1), t.readerOptions())
	if err != nil {
		return fmt.Errorf("decode re-encoded document: %w", err)
	}
	enc2, err := tablejson.EncodeProperties(again)
	if err != nil {
		return err
	}
	if !bytes.Equal(enc1, enc2) {
		t.log.WithField("first", string(enc1)).WithField("second", string(enc2)).Debug("encodings differ")
		return errMismatch
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d properties\n", len(props))
	return nil
}

// newTable returns a table writer to w in the configured output format.
// The text format omits borders and separators.
func (t *tool) newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	if t.cfg.Output == "text" {
		opts := &tw.Style().Options
		opts.DrawBorder = false
		opts.SeparateColumns = false
		opts.SeparateHeader = false
		opts.SeparateRows = false
	}
	return tw
}

// formatValue renders v for display.
func formatValue(v tablejson.Value) string {
	switch t := v.(type) {
	case tablejson.Null:
		return "null"
	case tablejson.Binary:
		return fmt.Sprintf("%x", []byte(t))
	case tablejson.String:
		return fmt.Sprintf("%q", string(t))
	}
	return fmt.Sprint(v)
}
