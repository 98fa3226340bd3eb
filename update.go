/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firekit

import (
	"context"

	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/storagemodels"
)

// UpdateWhere sets field to value on every record of the collection that
// matches predicate, and returns the number of records updated.
//
// The entire matching result set is fetched into memory and filtered
// locally; the predicate is deliberately more expressive than anything the
// backing store can evaluate server-side. Matches are then partitioned into
// consecutive chunks of at most the configured batch size (WithBatchSize,
// default 500) and each chunk commits as one atomic write group.
//
// Chunks commit sequentially and independently. When a commit fails, every
// prior chunk has already been durably applied, the failing chunk and all
// later ones have not, and the call returns a zero count with the store
// error — the partially applied count is not reported. Callers that must
// distinguish "nothing matched" from "failed midway" need external state.
//
// The batch size is not checked against the backing store's cap; an
// oversized chunk fails at commit time with the store's own error.
func (s *Store) UpdateWhere(ctx context.Context, collectionPath, field string, value any, predicate storagemodels.Predicate, opts ...storagemodels.Option) (int, error) {
	options := applyOptions(opts)
	batchSize := options.BatchSize
	if batchSize <= 0 {
		batchSize = storagemodels.DefaultBatchSize
	}

	docs, err := s.buildQuery(collectionPath, storagemodels.Options{
		Transform: options.Transform,
	}).Documents(ctx)
	if err != nil {
		return 0, err
	}

	var matched []datastore.Document
	for _, doc := range docs {
		if predicate(record(doc)) {
			matched = append(matched, doc)
		}
	}

	fields := map[string]any{field: value}
	total := 0
	for start := 0; start < len(matched); start += batchSize {
		end := min(start+batchSize, len(matched))
		batch := s.client.Batch()
		for _, doc := range matched[start:end] {
			batch.Update(doc.Ref(), fields)
		}
		if err := batch.Commit(ctx); err != nil {
			return 0, err
		}
		total += end - start
	}
	return total, nil
}
