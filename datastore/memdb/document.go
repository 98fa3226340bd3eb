/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memdb

import (
	"context"

	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/errors"
)

// docRef implements datastore.DocumentRef.
type docRef struct {
	store    *Store
	collPath string
	id       string
	path     string
	err      error
}

func (r *docRef) ID() string {
	return r.id
}

func (r *docRef) Path() string {
	return r.path
}

func (r *docRef) Get(ctx context.Context) (datastore.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.store.getErr != nil {
		return nil, r.store.getErr
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.Canceled, err, "get document")
	}
	data, ok := r.store.getDoc(r.collPath, r.id)
	if !ok {
		return &document{ref: r}, nil
	}
	return &document{ref: r, data: data}, nil
}

func (r *docRef) Set(ctx context.Context, data map[string]any) error {
	if r.err != nil {
		return r.err
	}
	if err := ctx.Err(); err != nil {
		return errors.New(errors.Canceled, err, "set document")
	}
	r.store.setDoc(r.collPath, r.id, data)
	return nil
}

func (r *docRef) Update(ctx context.Context, fields map[string]any) error {
	if r.err != nil {
		return r.err
	}
	if err := ctx.Err(); err != nil {
		return errors.New(errors.Canceled, err, "update document")
	}
	current, ok := r.store.getDoc(r.collPath, r.id)
	if !ok {
		return errors.Newf(errors.NotFound, nil, "no document to update: %s", r.path)
	}
	for k, v := range fields {
		current[k] = v
	}
	r.store.setDoc(r.collPath, r.id, current)
	return nil
}

func (r *docRef) Delete(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	if err := ctx.Err(); err != nil {
		return errors.New(errors.Canceled, err, "delete document")
	}
	// Deleting an absent document succeeds, as in the backing store.
	r.store.deleteDoc(r.collPath, r.id)
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

	sub := r.store.subscribe(r.collPath, r.id)
	go func() {
		defer close(out)
		defer r.store.unsubscribe(sub)
		for {
			data, ok := r.store.getDoc(r.collPath, r.id)
			doc := &document{ref: r}
			if ok {
				doc.data = data
			}
			select {
			case out <- datastore.DocumentSnapshot{Doc: doc}:
			case <-ctx.Done():
				return
			}
			select {
			case <-sub.ch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// document implements datastore.Document. A nil data map marks an absent
// document.
type document struct {
	ref  *docRef
	data map[string]any
}

func (d *document) ID() string {
	return d.ref.id
}

func (d *document) Ref() datastore.DocumentRef {
	return d.ref
}

func (d *document) Exists() bool {
	return d.data != nil
}

func (d *document) Data() map[string]any {
	return deepCopy(d.data)
}

// writeBatch implements datastore.WriteBatch. Staged updates apply under a
// single store lock, all-or-nothing.
type writeBatch struct {
	store  *Store
	writes []batchWrite
	err    error
}

type batchWrite struct {
	ref    *docRef
	fields map[string]any
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
	b.writes = append(b.writes, batchWrite{ref: r, fields: deepCopy(fields)})
	return b
}

func (b *writeBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if err := ctx.Err(); err != nil {
		return errors.New(errors.Canceled, err, "commit batch")
	}

	s := b.store
	s.mu.Lock()
	s.commits++
	if s.commitErrAfter >= 0 && s.commits > s.commitErrAfter {
		s.mu.Unlock()
		return s.commitErr
	}

	// Validate the whole group before touching anything: an update against
	// a missing document fails the entire commit.
	for _, w := range b.writes {
		if _, ok := s.collections[w.ref.collPath][w.ref.id]; !ok {
			s.mu.Unlock()
			return errors.Newf(errors.NotFound, nil, "no document to update: %s", w.ref.path)
		}
	}

	for _, w := range b.writes {
		doc := s.collections[w.ref.collPath][w.ref.id]
		for k, v := range w.fields {
			doc[k] = copyValue(v)
		}
	}
	s.mu.Unlock()

	for _, w := range b.writes {
		s.broadcast(w.ref.collPath, w.ref.id)
	}
	return nil
}
