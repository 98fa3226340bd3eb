/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memdb

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/errors"
)

// Store is an in-memory implementation of datastore.Client with change
// notification, suitable for tests and local development. Documents live in
// path-addressed collections and are ordered by document id unless a query
// orders them otherwise, mirroring the backing store's default ordering.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any

	subMu sync.Mutex
	subs  map[*subscriber]struct{}

	// Fault injection, test-only.
	queryErr       error
	getErr         error
	commitErr      error
	commitErrAfter int
	commits        int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		collections:    make(map[string]map[string]map[string]any),
		subs:           make(map[*subscriber]struct{}),
		commitErrAfter: -1,
	}
}

// WithQueryErr makes every query execution fail with err.
func (s *Store) WithQueryErr(err error) *Store {
	s.queryErr = err
	return s
}

// WithGetErr makes every single-document fetch fail with err.
func (s *Store) WithGetErr(err error) *Store {
	s.getErr = err
	return s
}

// WithCommitErrAfter lets the first n batch commits succeed and fails every
// later one with err.
func (s *Store) WithCommitErrAfter(n int, err error) *Store {
	s.commitErrAfter = n
	s.commitErr = err
	return s
}

// Collection returns a handle to the collection at path.
func (s *Store) Collection(path string) datastore.CollectionRef {
	coll := &collection{store: s, path: path}
	if path == "" || strings.Count(path, "/")%2 != 0 {
		coll.err = errors.Newf(errors.InvalidArgument, nil, "invalid collection path %q", path)
	}
	return coll
}

// Doc returns a handle to the document at path.
func (s *Store) Doc(path string) datastore.DocumentRef {
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return &docRef{
			store: s,
			path:  path,
			err:   errors.Newf(errors.InvalidArgument, nil, "invalid document path %q", path),
		}
	}
	return &docRef{
		store:    s,
		collPath: path[:i],
		id:       path[i+1:],
		path:     path,
	}
}

// Batch opens a new atomic write group.
func (s *Store) Batch() datastore.WriteBatch {
	return &writeBatch{store: s}
}

// Close releases the store. It never fails.
func (s *Store) Close() error {
	return nil
}

// Len reports the number of documents currently stored in the collection.
// Test helper.
func (s *Store) Len(collPath string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collPath])
}

// Commits reports how many batch commits have been attempted. Test helper.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// collection implements datastore.CollectionRef. Query methods operate on
// an unrefined base query over the collection's documents.
type collection struct {
	store *Store
	path  string
	err   error
}

func (c *collection) base() query {
	return query{coll: c, err: c.err}
}

func (c *collection) Where(field, op string, value any) datastore.Query {
	return c.base().Where(field, op, value)
}

func (c *collection) OrderBy(field, dir string) datastore.Query {
	return c.base().OrderBy(field, dir)
}

func (c *collection) Limit(n int) datastore.Query {
	return c.base().Limit(n)
}

func (c *collection) StartAfter(doc datastore.Document) datastore.Query {
	return c.base().StartAfter(doc)
}

func (c *collection) Documents(ctx context.Context) ([]datastore.Document, error) {
	return c.base().Documents(ctx)
}

func (c *collection) Snapshots(ctx context.Context) <-chan datastore.QuerySnapshot {
	return c.base().Snapshots(ctx)
}

func (c *collection) Doc(id string) datastore.DocumentRef {
	return c.store.Doc(c.path + "/" + id)
}

func (c *collection) Add(ctx context.Context, data map[string]any) (datastore.DocumentRef, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.Canceled, err, "add document")
	}
	ref := c.Doc(newID())
	c.store.setDoc(c.path, ref.ID(), data)
	return ref, nil
}

// newID generates a random document id the way the backing store would.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

func (s *Store) getDoc(collPath, id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collPath][id]
	if !ok {
		return nil, false
	}
	return deepCopy(data), true
}

func (s *Store) setDoc(collPath, id string, data map[string]any) {
	s.mu.Lock()
	coll := s.collections[collPath]
	if coll == nil {
		coll = make(map[string]map[string]any)
		s.collections[collPath] = coll
	}
	coll[id] = deepCopy(data)
	s.mu.Unlock()
	s.broadcast(collPath, id)
}

func (s *Store) deleteDoc(collPath, id string) {
	s.mu.Lock()
	delete(s.collections[collPath], id)
	s.mu.Unlock()
	s.broadcast(collPath, id)
}

// deepCopy clones a document payload so stored state and handed-out
// snapshots never alias.
func deepCopy(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return deepCopy(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
