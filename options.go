// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"io"
	"slices"

	"github.com/sirupsen/logrus"
)

// Names of the system fields of a stored entity document.
const (
	PartitionKeyField = "$pk"   // the table partition key
	RowKeyField       = "id"    // the table row key, stored as the document id
	ETagField         = "_etag" // the document version tag
	TimestampField    = "_ts"   // last-modified time, in seconds since the epoch
)

var defaultReserved = []string{
	PartitionKeyField,
	RowKeyField,
	"_rid",
	"_self",
	ETagField,
	"_attachments",
	TimestampField,
}

// DefaultReserved returns the field names a Reader skips when its options do
// not specify any: the document metadata fields added by the store, plus the
// partition key field.
func DefaultReserved() []string { return slices.Clone(defaultReserved) }

// ReaderOptions are settings for a Reader. A nil *ReaderOptions is ready for
// use and provides default values.
type ReaderOptions struct {
	// Reserved lists top-level field names that are not properties. The reader
	// skips them, recording their scalar values as metadata. If nil, the
	// names returned by DefaultReserved are used.
	Reserved []string

	// Logger receives debug traces of the reader's activity.
	// If nil, log output is discarded.
	Logger logrus.FieldLogger
}

func (o *ReaderOptions) reserved() map[string]bool {
	names := defaultReserved
	if o != nil && o.Reserved != nil {
		names = o.Reserved
	}
	m := make(map[string]bool, len(names))
	for _, name := range names {
		m[name] = true
	}
	return m
}

func (o *ReaderOptions) logger() logrus.FieldLogger {
	if o == nil || o.Logger == nil {
		return discardLogger()
	}
	return o.Logger
}

// WriterOptions are settings for a Writer. A nil *WriterOptions is ready for
// use and provides default values.
type WriterOptions struct {
	// Logger receives debug traces of the writer's activity.
	// If nil, log output is discarded.
	Logger logrus.FieldLogger
}

func (o *WriterOptions) logger() logrus.FieldLogger {
	if o == nil || o.Logger == nil {
		return discardLogger()
	}
	return o.Logger
}

func discardLogger() logrus.FieldLogger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}
