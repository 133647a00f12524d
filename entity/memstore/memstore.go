// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package memstore implements an in-memory entity.Store.
//
// Entities are held as encoded documents, exactly as a document store would
// hold them, so every write and read passes through the entity codec.
package memstore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/creachadair/tablejson/entity"
	"github.com/sirupsen/logrus"
)

// Options are settings for a Store. A nil *Options provides defaults.
type Options struct {
	// Clock returns the current time, used to stamp writes.
	// If nil, time.Now is used.
	Clock func() time.Time

	// Logger receives debug traces of store operations.
	// If nil, log output is discarded.
	Logger logrus.FieldLogger
}

func (o *Options) clock() func() time.Time {
	if o == nil || o.Clock == nil {
		return time.Now
	}
	return o.Clock
}

func (o *Options) logger() logrus.FieldLogger {
	if o == nil || o.Logger == nil {
		lg := logrus.New()
		lg.SetOutput(io.Discard)
		return lg
	}
	return o.Logger
}

type key struct{ pk, rk string }

// Store is an in-memory implementation of entity.Store. It is safe for
// concurrent use by multiple goroutines.
type Store struct {
	now func() time.Time
	log logrus.FieldLogger

	mu   sync.Mutex
	docs map[key][]byte
}

var _ entity.Store = (*Store)(nil)

// New constructs a new empty Store.
func New(opts *Options) *Store {
	return &Store{
		now:  opts.clock(),
		log:  opts.logger(),
		docs: make(map[key][]byte),
	}
}

// Len reports the number of entities in s.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Keys returns the keys of all the entities in s, ordered by partition key
// and then by row key.
func (s *Store) Keys() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]string, 0, len(s.docs))
	for k := range s.docs {
		out = append(out, [2]string{k.pk, k.rk})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Document returns the stored document for the given keys, and reports
// whether it exists.
func (s *Store) Document(pk, rk string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[key{pk, rk}]
	return doc, ok
}

// Create implements a method of entity.Store.
func (s *Store) Create(ctx context.Context, e *entity.Entity) (*entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{e.PartitionKey, e.RowKey}
	if _, ok := s.docs[k]; ok {
		return nil, fmt.Errorf("create %q/%q: %w", k.pk, k.rk, entity.ErrConflict)
	}
	return s.putLocked(k, e)
}

// Read implements a method of entity.Store.
func (s *Store) Read(ctx context.Context, pk, rk string) (*entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	doc, ok := s.docs[key{pk, rk}]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("read %q/%q: %w", pk, rk, entity.ErrNotFound)
	}
	return entity.Unmarshal(doc)
}

// Replace implements a method of entity.Store.
func (s *Store) Replace(ctx context.Context, e *entity.Entity, etag string) (*entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{e.PartitionKey, e.RowKey}
	if err := s.checkLocked("replace", k, etag); err != nil {
		return nil, err
	}
	return s.putLocked(k, e)
}

// Delete implements a method of entity.Store.
func (s *Store) Delete(ctx context.Context, pk, rk, etag string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{pk, rk}
	if err := s.checkLocked("delete", k, etag); err != nil {
		return err
	}
	delete(s.docs, k)
	s.log.WithFields(logrus.Fields{"pk": pk, "rk": rk}).Debug("deleted entity")
	return nil
}

// Upsert implements a method of entity.Store.
func (s *Store) Upsert(ctx context.Context, e *entity.Entity) (*entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(key{e.PartitionKey, e.RowKey}, e)
}

// checkLocked reports an error if there is no entity at k, or if etag does
// not match its current etag. The caller must hold s.mu.
func (s *Store) checkLocked(op string, k key, etag string) error {
	doc, ok := s.docs[k]
	if !ok {
		return fmt.Errorf("%s %q/%q: %w", op, k.pk, k.rk, entity.ErrNotFound)
	}
	if etag == "" || etag == entity.AnyETag {
		return nil
	}
	cur, err := entity.Unmarshal(doc)
	if err != nil {
		return err
	}
	if !entity.ETagMatches(etag, cur.ETag) {
		return fmt.Errorf("%s %q/%q: %w", op, k.pk, k.rk, entity.ErrPreconditionFailed)
	}
	return nil
}

// putLocked stamps a copy of e with a new timestamp and etag and stores its
// encoding at k. The caller must hold s.mu.
func (s *Store) putLocked(k key, e *entity.Entity) (*entity.Entity, error) {
	out := e.Clone()
	out.Timestamp = s.now().UTC().Truncate(time.Second)
	out.ETag = ""

	// The etag is a digest of the document content and its timestamp.
	body, err := entity.Marshal(out)
	if err != nil {
		return nil, err
	}
	out.ETag = fmt.Sprintf(`"0x%016x"`, xxhash.Sum64(body))

	doc, err := entity.Marshal(out)
	if err != nil {
		return nil, err
	}
	s.docs[k] = doc
	s.log.WithFields(logrus.Fields{
		"pk":   k.pk,
		"rk":   k.rk,
		"etag": out.ETag,
	}).Debug("stored entity")
	return out, nil
}
