/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firekit

import (
	"context"

	"github.com/suparena/firekit/registry"
	"github.com/suparena/firekit/storagemodels"
)

// FetchCollection fetches the collection's result set once and decodes every
// record with from. WithQuery refines the query; WithLimit caps the result.
func FetchCollection[T any](ctx context.Context, s *Store, collectionPath string, from FromRecord[T], opts ...storagemodels.Option) ([]T, error) {
	options := applyOptions(opts)
	docs, err := s.buildQuery(collectionPath, storagemodels.Options{
		Transform: options.Transform,
		Limit:     options.Limit,
	}).Documents(ctx)
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs, from)
}

// FetchDocument fetches one document and decodes it with from. An absent
// document is not an error: the result is nil with a nil error.
func FetchDocument[T any](ctx context.Context, s *Store, path string, from FromRecord[T]) (*T, error) {
	doc, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		return nil, err
	}
	if !doc.Exists() {
		return nil, nil
	}
	item, err := from(record(doc))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FetchRegistered fetches a collection and decodes each record with the
// decoder registered for its path, returning the decoded values untyped.
// It fails if no decoder is registered for collectionPath.
func (s *Store) FetchRegistered(ctx context.Context, collectionPath string, opts ...storagemodels.Option) ([]any, error) {
	decode, err := registry.GetDecoder(collectionPath)
	if err != nil {
		return nil, err
	}

	options := applyOptions(opts)
	docs, err := s.buildQuery(collectionPath, storagemodels.Options{
		Transform: options.Transform,
		Limit:     options.Limit,
	}).Documents(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]any, 0, len(docs))
	for _, doc := range docs {
		obj, err := decode(record(doc))
		if err != nil {
			return nil, err
		}
		results = append(results, obj)
	}
	return results, nil
}
