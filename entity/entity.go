// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package entity maps table entities to and from the documents that hold
// them in a document store.
//
// A stored document carries the partition key and row key of its entity as
// untyped system fields, alongside the typed properties:
//
//	{"$pk": "users", "id": "alice", "age": {"$t": 6, "$v": 37}}
//
// The store adds further system fields, notably "_etag" and "_ts", which
// Unmarshal recovers into the Entity.
package entity

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/creachadair/tablejson"
)

// An Entity is a keyed record of typed properties.
type Entity struct {
	PartitionKey string
	RowKey       string

	// Timestamp is the time of the last write, with one-second resolution.
	// It is set by the store; the zero value means unknown.
	Timestamp time.Time

	// ETag is the version tag of the stored document. It is set by the store
	// and is empty for an entity that has not been stored.
	ETag string

	Properties []tablejson.Property
}

// Key returns the partition and row keys of e.
func (e *Entity) Key() (pk, rk string) { return e.PartitionKey, e.RowKey }

// Get returns the value of the first property of e with the given name, or
// nil if there is none.
func (e *Entity) Get(name string) tablejson.Value {
	for _, p := range e.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// Clone returns a copy of e that shares no mutable state with it.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Properties = make([]tablejson.Property, len(e.Properties))
	for i, p := range e.Properties {
		if b, ok := p.Value.(tablejson.Binary); ok {
			p.Value = tablejson.Binary(bytes.Clone(b))
		}
		c.Properties[i] = p
	}
	return &c
}

// ErrInvalidEntity is reported by Marshal for an entity that cannot be
// stored: one with an empty row key, or with a property whose name is a
// reserved system field.
var ErrInvalidEntity = errors.New("invalid entity")

// Marshal encodes e as a stored document. The ETag and Timestamp fields are
// included when set.
func Marshal(e *Entity) ([]byte, error) {
	if err := validate(e); err != nil {
		return nil, err
	}
	meta := []tablejson.MetaField{
		{Name: tablejson.PartitionKeyField, Value: e.PartitionKey},
		{Name: tablejson.RowKeyField, Value: e.RowKey},
	}
	if e.ETag != "" {
		meta = append(meta, tablejson.MetaField{Name: tablejson.ETagField, Value: e.ETag})
	}
	if !e.Timestamp.IsZero() {
		meta = append(meta, tablejson.MetaField{Name: tablejson.TimestampField, Value: e.Timestamp.Unix()})
	}
	var buf bytes.Buffer
	if err := tablejson.WriteDocument(&buf, meta, e.Properties, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func validate(e *Entity) error {
	if e.RowKey == "" {
		return fmt.Errorf("%w: empty row key", ErrInvalidEntity)
	}
	reserved := tablejson.DefaultReserved()
	for _, p := range e.Properties {
		for _, r := range reserved {
			if p.Name == r {
				return fmt.Errorf("%w: property name %q is reserved", ErrInvalidEntity, p.Name)
			}
		}
	}
	return nil
}

// Unmarshal decodes a stored document into an Entity. The document must
// carry string partition and row keys. The etag and timestamp are optional.
func Unmarshal(text []byte) (*Entity, error) {
	props, meta, err := tablejson.ReadDocument(text, nil)
	if err != nil {
		return nil, err
	}
	e := &Entity{Properties: props}
	if e.PartitionKey, err = metaString(meta, tablejson.PartitionKeyField, true); err != nil {
		return nil, err
	}
	if e.RowKey, err = metaString(meta, tablejson.RowKeyField, true); err != nil {
		return nil, err
	}
	if e.ETag, err = metaString(meta, tablejson.ETagField, false); err != nil {
		return nil, err
	}
	if v, ok := meta[tablejson.TimestampField]; ok && v != nil {
		ts, ok := v.(float64)
		if !ok || ts != math.Trunc(ts) || math.IsInf(ts, 0) {
			return nil, &tablejson.FormatError{
				Expected: "integer seconds",
				Actual:   fmt.Sprint(v),
				Message:  fmt.Sprintf("field %q", tablejson.TimestampField),
			}
		}
		e.Timestamp = time.Unix(int64(ts), 0).UTC()
	}
	return e, nil
}

func metaString(meta map[string]any, name string, required bool) (string, error) {
	v, ok := meta[name]
	if !ok || v == nil {
		if required {
			return "", &tablejson.FormatError{
				Expected: "a string",
				Actual:   "nothing",
				Message:  fmt.Sprintf("field %q", name),
			}
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &tablejson.FormatError{
			Expected: "a string",
			Actual:   fmt.Sprint(v),
			Message:  fmt.Sprintf("field %q", name),
		}
	}
	return s, nil
}

// A Resolver constructs a value of type T from the parts of a stored entity.
type Resolver[T any] func(pk, rk string, ts time.Time, props []tablejson.Property, etag string) (T, error)

// Resolve decodes the stored document in text and passes its parts to fn,
// returning the result.
func Resolve[T any](text []byte, fn Resolver[T]) (T, error) {
	e, err := Unmarshal(text)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(e.PartitionKey, e.RowKey, e.Timestamp, e.Properties, e.ETag)
}
