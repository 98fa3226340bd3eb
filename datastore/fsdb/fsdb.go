/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fsdb

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/errors"
)

// Store implements datastore.Client on Google Cloud Firestore. All failures
// surface as store errors whose Kind is derived from the gRPC status code;
// the Firestore SDK's own error stays reachable as the cause.
type Store struct {
	client *firestore.Client
}

// New connects to Firestore for the given project. Credentials resolve the
// SDK's usual way (application default credentials) unless overridden with
// client options.
func New(ctx context.Context, projectID string, opts ...option.ClientOption) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.FromGRPC(err, "create firestore client for project %s", projectID)
	}
	return &Store{client: client}, nil
}

// NewFromClient wraps an existing Firestore client, for callers that manage
// client construction themselves.
func NewFromClient(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Collection returns a handle to the collection at path.
func (s *Store) Collection(path string) datastore.CollectionRef {
	ref := s.client.Collection(path)
	coll := &collection{ref: ref}
	if ref == nil {
		coll.err = errors.Newf(errors.InvalidArgument, nil, "invalid collection path %q", path)
	}
	return coll
}

// Doc returns a handle to the document at path.
func (s *Store) Doc(path string) datastore.DocumentRef {
	ref := s.client.Doc(path)
	if ref == nil {
		return &docRef{path: path, err: errors.Newf(errors.InvalidArgument, nil, "invalid document path %q", path)}
	}
	return &docRef{ref: ref, path: path}
}

// Batch opens a new atomic write group. Firestore caps a group at 500
// writes; oversized groups fail at commit time.
func (s *Store) Batch() datastore.WriteBatch {
	return &writeBatch{batch: s.client.Batch()}
}

// Close releases the Firestore client.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return errors.FromGRPC(err, "close firestore client")
	}
	return nil
}

// collection implements datastore.CollectionRef.
type collection struct {
	ref *firestore.CollectionRef
	err error
}

func (c *collection) base() query {
	if c.err != nil {
		return query{err: c.err}
	}
	return query{q: c.ref.Query}
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
	if c.err != nil {
		return &docRef{err: c.err}
	}
	ref := c.ref.Doc(id)
	if ref == nil {
		return &docRef{err: errors.Newf(errors.InvalidArgument, nil, "invalid document id %q", id)}
	}
	return &docRef{ref: ref, path: ref.Path}
}

func (c *collection) Add(ctx context.Context, data map[string]any) (datastore.DocumentRef, error) {
	if c.err != nil {
		return nil, c.err
	}
	ref, _, err := c.ref.Add(ctx, data)
	if err != nil {
		return nil, errors.FromGRPC(err, "add document to %s", c.ref.Path)
	}
	return &docRef{ref: ref, path: ref.Path}, nil
}

// query implements datastore.Query over firestore.Query, which is itself an
// immutable value type.
type query struct {
	q   firestore.Query
	err error
}

func (w query) Where(field, op string, value any) datastore.Query {
	if w.err != nil {
		return w
	}
	w.q = w.q.Where(field, op, value)
	return w
}

func (w query) OrderBy(field, dir string) datastore.Query {
	if w.err != nil {
		return w
	}
	switch dir {
	case datastore.Ascending:
		w.q = w.q.OrderBy(field, firestore.Asc)
	case datastore.Descending:
		w.q = w.q.OrderBy(field, firestore.Desc)
	default:
		w.err = errors.Newf(errors.InvalidArgument, nil, "invalid order direction %q", dir)
	}
	return w
}

func (w query) Limit(n int) datastore.Query {
	if w.err != nil {
		return w
	}
	if n <= 0 {
		w.err = errors.Newf(errors.InvalidArgument, nil, "limit must be positive, got %d", n)
		return w
	}
	w.q = w.q.Limit(n)
	return w
}

func (w query) StartAfter(doc datastore.Document) datastore.Query {
	if w.err != nil {
		return w
	}
	d, ok := doc.(*document)
	if !ok {
		w.err = errors.Newf(errors.InvalidArgument, nil, "cursor does not belong to this store")
		return w
	}
	w.q = w.q.StartAfter(d.snap)
	return w
}

func (w query) Documents(ctx context.Context) ([]datastore.Document, error) {
	if w.err != nil {
		return nil, w.err
	}
	iter := w.q.Documents(ctx)
	defer iter.Stop()
	snaps, err := iter.GetAll()
	if err != nil {
		return nil, errors.FromGRPC(err, "run query")
	}
	docs := make([]datastore.Document, len(snaps))
	for i, snap := range snaps {
		docs[i] = &document{snap: snap}
	}
	return docs, nil
}

func (w query) Snapshots(ctx context.Context) <-chan datastore.QuerySnapshot {
	out := make(chan datastore.QuerySnapshot)
	if w.err != nil {
		go func() {
			defer close(out)
			select {
			case out <- datastore.QuerySnapshot{Err: w.err}:
			case <-ctx.Done():
			}
		}()
		return out
	}

	iter := w.q.Snapshots(ctx)
	go func() {
		defer close(out)
		defer iter.Stop()
		for {
			qsnap, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				select {
				case out <- datastore.QuerySnapshot{Err: errors.FromGRPC(err, "query subscription")}:
				case <-ctx.Done():
				}
				return
			}

			snaps, err := qsnap.Documents.GetAll()
			if err != nil {
				select {
				case out <- datastore.QuerySnapshot{Err: errors.FromGRPC(err, "read query snapshot")}:
				case <-ctx.Done():
				}
				return
			}

			docs := make([]datastore.Document, len(snaps))
			for i, snap := range snaps {
				docs[i] = &document{snap: snap}
			}
			select {
			case out <- datastore.QuerySnapshot{Docs: docs, Size: qsnap.Size}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// docRef implements datastore.DocumentRef.
type docRef struct {
	ref  *firestore.DocumentRef
	path string
	err  error
}

func (r *docRef) ID() string {
	if r.ref == nil {
		return ""
	}
	return r.ref.ID
}

func (r *docRef) Path() string {
	return r.path
}

func (r *docRef) Get(ctx context.Context) (datastore.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	snap, err := r.ref.Get(ctx)
	if err != nil {
		// Absence is a success value. The SDK still returns a usable
		// snapshot alongside the NotFound status.
		if status.Code(err) == codes.NotFound && snap != nil {
			return &document{snap: snap}, nil
		}
		return nil, errors.FromGRPC(err, "get %s", r.path)
	}
	return &document{snap: snap}, nil
}

func (r *docRef) Set(ctx context.Context, data map[string]any) error {
	if r.err != nil {
		return r.err
	}
	if _, err := r.ref.Set(ctx, data); err != nil {
		return errors.FromGRPC(err, "set %s", r.path)
	}
	return nil
}

func (r *docRef) Update(ctx context.Context, fields map[string]any) error {
	if r.err != nil {
		return r.err
	}
	if _, err := r.ref.Update(ctx, toUpdates(fields)); err != nil {
		return errors.FromGRPC(err, "update %s", r.path)
	}
	return nil
}

func (r *docRef) Delete(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	if _, err := r.ref.Delete(ctx); err != nil {
		return errors.FromGRPC(err, "delete %s", r.path)
	}
	return nil
}

func (r *docRef) Snapshots(ctx context.Context) <-chan datastore.DocumentSnapshot {
	out := make(chan datastore.DocumentSnapshot)
	if r.err != nil {
		go func() {
			defer close(out)
			select {
			case out <- datastore.DocumentSnapshot{Err: r.err}:
			case <-ctx.Done():
			}
		}()
		return out
	}

	iter := r.ref.Snapshots(ctx)
	go func() {
		defer close(out)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				select {
				case out <- datastore.DocumentSnapshot{Err: errors.FromGRPC(err, "document subscription %s", r.path)}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case out <- datastore.DocumentSnapshot{Doc: &document{snap: snap}}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// document implements datastore.Document over a Firestore snapshot. The
// snapshot doubles as the pagination cursor handed back to StartAfter.
type document struct {
	snap *firestore.DocumentSnapshot
}

func (d *document) ID() string {
	return d.snap.Ref.ID
}

func (d *document) Ref() datastore.DocumentRef {
	return &docRef{ref: d.snap.Ref, path: d.snap.Ref.Path}
}

func (d *document) Exists() bool {
	return d.snap.Exists()
}

func (d *document) Data() map[string]any {
	return d.snap.Data()
}

// writeBatch implements datastore.WriteBatch over firestore.WriteBatch.
type writeBatch struct {
	batch *firestore.WriteBatch
	err   error
}

func (b *writeBatch) Update(ref datastore.DocumentRef, fields map[string]any) datastore.WriteBatch {
	r, ok := ref.(*docRef)
	if !ok {
		b.err = errors.Newf(errors.InvalidArgument, nil, "document ref %q belongs to another store", ref.Path())
		return b
	}
	if r.err != nil {
		b.err = r.err
		return b
	}
	b.batch = b.batch.Update(r.ref, toUpdates(fields))
	return b
}

func (b *writeBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if _, err := b.batch.Commit(ctx); err != nil {
		return errors.FromGRPC(err, "commit batch")
	}
	return nil
}

func toUpdates(fields map[string]any) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	return updates
}
