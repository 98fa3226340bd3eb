/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firekit

import (
	"context"

	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/storagemodels"
)

// FromRecord decodes one raw record into a caller type. The record is the
// document's field mapping with the synthesized "id" key already merged in;
// the merged id always wins over any payload-supplied "id" value.
type FromRecord[T any] func(record map[string]any) (T, error)

// Store is the typed convenience layer over a backing document store.
// It holds the single long-lived client handle and nothing else, so one
// Store is safe for concurrent use by any number of in-flight operations.
type Store struct {
	client datastore.Client
}

// New creates a Store over the given backing-store client.
func New(client datastore.Client) *Store {
	return &Store{client: client}
}

// Client returns the underlying backing-store client handle.
func (s *Store) Client() datastore.Client {
	return s.client
}

// Close releases the backing-store client.
func (s *Store) Close() error {
	return s.client.Close()
}

// AddDocument creates a document with a store-generated id in the given
// collection and returns the new id.
func (s *Store) AddDocument(ctx context.Context, collectionPath string, data map[string]any) (string, error) {
	ref, err := s.client.Collection(collectionPath).Add(ctx, data)
	if err != nil {
		return "", err
	}
	return ref.ID(), nil
}

// SetDocument writes the full document at path, creating it if necessary.
func (s *Store) SetDocument(ctx context.Context, path string, data map[string]any) error {
	return s.client.Doc(path).Set(ctx, data)
}

// UpdateDocument applies a partial field update to the document at path.
func (s *Store) UpdateDocument(ctx context.Context, path string, fields map[string]any) error {
	return s.client.Doc(path).Update(ctx, fields)
}

// DeleteDocument removes the document at path.
func (s *Store) DeleteDocument(ctx context.Context, path string) error {
	return s.client.Doc(path).Delete(ctx)
}

// buildQuery assembles the backing-store query for a collection: base
// collection handle, then the caller's transform, then the cursor
// constraint, then the row cap. A zero limit leaves the query uncapped;
// any other value is handed to the backend untranslated.
func (s *Store) buildQuery(collectionPath string, opts storagemodels.Options) datastore.Query {
	var q datastore.Query = s.client.Collection(collectionPath)
	if opts.Transform != nil {
		q = opts.Transform(q)
	}
	if opts.StartAfter != nil {
		q = q.StartAfter(opts.StartAfter)
	}
	if opts.Limit != 0 {
		q = q.Limit(opts.Limit)
	}
	return q
}

// record returns the document's raw field mapping with the synthesized id
// merged in, overwriting any "id" key the payload itself carried.
func record(doc datastore.Document) map[string]any {
	data := doc.Data()
	if data == nil {
		data = make(map[string]any, 1)
	}
	data["id"] = doc.ID()
	return data
}

// decodeDocs runs every document through the id merge and the caller's
// decoder, preserving order.
func decodeDocs[T any](docs []datastore.Document, from FromRecord[T]) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := from(record(doc))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func applyOptions(opts []storagemodels.Option) storagemodels.Options {
	options := storagemodels.DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
