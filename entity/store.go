// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package entity

import (
	"context"
	"errors"
)

// Errors reported by implementations of Store.
var (
	// ErrNotFound reports that no entity has the requested keys.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict reports that Create found an existing entity.
	ErrConflict = errors.New("entity already exists")

	// ErrPreconditionFailed reports that the etag given for a conditional
	// write does not match the stored entity.
	ErrPreconditionFailed = errors.New("etag precondition failed")
)

// AnyETag is the etag that matches every stored version of an entity.
const AnyETag = "*"

// A Store holds entities keyed by partition key and row key.
//
// Writes return the entity as stored, with its new ETag and Timestamp. The
// etag argument of Replace and Delete is a precondition: the operation fails
// with ErrPreconditionFailed unless it matches the stored etag. An empty etag
// or AnyETag makes the operation unconditional.
type Store interface {
	// Create stores a new entity. It reports ErrConflict if an entity with
	// the same keys exists.
	Create(ctx context.Context, e *Entity) (*Entity, error)

	// Read returns the entity with the given keys, or ErrNotFound.
	Read(ctx context.Context, pk, rk string) (*Entity, error)

	// Replace overwrites an existing entity. It reports ErrNotFound if there
	// is no entity with the same keys.
	Replace(ctx context.Context, e *Entity, etag string) (*Entity, error)

	// Delete removes the entity with the given keys. It reports ErrNotFound
	// if there is none.
	Delete(ctx context.Context, pk, rk, etag string) error

	// Upsert stores e, replacing any existing entity with the same keys.
	Upsert(ctx context.Context, e *Entity) (*Entity, error)
}

// ETagMatches reports whether the precondition etag is satisfied by a stored
// entity whose etag is current.
func ETagMatches(etag, current string) bool {
	return etag == "" || etag == AnyETag || etag == current
}
