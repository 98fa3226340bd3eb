/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firekit

import (
	"context"

	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/storagemodels"
)

// FetchPage fetches one page of at most limit records. Pass WithStartAfter
// with the previous page's cursor to fetch the next page; omit it for the
// first page.
//
// The fetch over-requests by one record so the page can report whether more
// data exists without a separate count query. The over-fetch record is never
// decoded or returned. Non-positive limits are not validated here; the
// backing store rejects them at execution time.
func FetchPage[T any](ctx context.Context, s *Store, collectionPath string, from FromRecord[T], limit int, opts ...storagemodels.Option) (storagemodels.Page[T], error) {
	options := applyOptions(opts)
	docs, err := s.buildQuery(collectionPath, storagemodels.Options{
		Transform:  options.Transform,
		StartAfter: options.StartAfter,
		Limit:      limit + 1,
	}).Documents(ctx)
	if err != nil {
		return storagemodels.Page[T]{}, err
	}
	return shapePage(docs, limit, from)
}

// WatchPages subscribes to the first page of the query and re-emits a fresh
// page every time the underlying result set changes. The channel closes when
// ctx is done or after a terminal store error has been delivered. Resuming a
// watch deeper in the result set works the same way as FetchPage, via
// WithStartAfter.
func WatchPages[T any](ctx context.Context, s *Store, collectionPath string, from FromRecord[T], limit int, opts ...storagemodels.Option) <-chan storagemodels.PageEvent[T] {
	options := applyOptions(opts)
	snapshots := s.buildQuery(collectionPath, storagemodels.Options{
		Transform:  options.Transform,
		StartAfter: options.StartAfter,
		Limit:      limit + 1,
	}).Snapshots(ctx)

	events := make(chan storagemodels.PageEvent[T])
	go func() {
		defer close(events)
		for snap := range snapshots {
			var event storagemodels.PageEvent[T]
			if snap.Err != nil {
				event.Err = snap.Err
			} else {
				event.Page, event.Err = shapePage(snap.Docs, limit, from)
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

// shapePage turns a raw over-fetched result set into a page: it drops the
// over-fetch record, decodes what remains and keeps the last retained
// document as the resume cursor.
func shapePage[T any](docs []datastore.Document, limit int, from FromRecord[T]) (storagemodels.Page[T], error) {
	hasMore := len(docs) > limit
	if hasMore {
		docs = docs[:limit]
	}

	items, err := decodeDocs(docs, from)
	if err != nil {
		return storagemodels.Page[T]{}, err
	}

	page := storagemodels.Page[T]{
		Items:   items,
		HasMore: hasMore,
	}
	if len(docs) > 0 {
		page.Cursor = docs[len(docs)-1]
	}
	return page, nil
}
