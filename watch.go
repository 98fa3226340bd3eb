/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firekit

import (
	"context"

	"github.com/suparena/firekit/storagemodels"
)

// WatchDocument subscribes to one document and decodes each notification
// with from. While the document does not exist the event's Value is nil.
// The channel closes when ctx is done or after a terminal store error has
// been delivered; decode failures are delivered as events and the watch
// keeps running.
func WatchDocument[T any](ctx context.Context, s *Store, path string, from FromRecord[T]) <-chan storagemodels.DocumentEvent[T] {
	snapshots := s.client.Doc(path).Snapshots(ctx)

	events := make(chan storagemodels.DocumentEvent[T])
	go func() {
		defer close(events)
		for snap := range snapshots {
			var event storagemodels.DocumentEvent[T]
			switch {
			case snap.Err != nil:
				event.Err = snap.Err
			case snap.Doc.Exists():
				item, err := from(record(snap.Doc))
				if err != nil {
					event.Err = err
				} else {
					event.Value = &item
				}
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

// WatchDocumentField subscribes to one document and emits the raw value of
// a single field on every notification. The value is nil while the document
// or the field is absent.
func (s *Store) WatchDocumentField(ctx context.Context, path, field string) <-chan storagemodels.FieldEvent {
	snapshots := s.client.Doc(path).Snapshots(ctx)

	events := make(chan storagemodels.FieldEvent)
	go func() {
		defer close(events)
		for snap := range snapshots {
			var event storagemodels.FieldEvent
			switch {
			case snap.Err != nil:
				event.Err = snap.Err
			case snap.Doc.Exists():
				event.Value = snap.Doc.Data()[field]
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

// WatchCollection subscribes to the collection's result set and re-decodes
// the whole set with from on every change notification. There is no
// incremental diffing: each event carries the full latest result.
func WatchCollection[T any](ctx context.Context, s *Store, collectionPath string, from FromRecord[T], opts ...storagemodels.Option) <-chan storagemodels.CollectionEvent[T] {
	options := applyOptions(opts)
	snapshots := s.buildQuery(collectionPath, storagemodels.Options{
		Transform: options.Transform,
		Limit:     options.Limit,
	}).Snapshots(ctx)

	events := make(chan storagemodels.CollectionEvent[T])
	go func() {
		defer close(events)
		for snap := range snapshots {
			var event storagemodels.CollectionEvent[T]
			if snap.Err != nil {
				event.Err = snap.Err
			} else {
				event.Items, event.Err = decodeDocs(snap.Docs, from)
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

// WatchCount subscribes to the collection's result-set size. Without a
// predicate each event carries the store's native size, which is cheap.
// WithPredicate switches to counting locally matching records, which
// materializes every record on each change and costs accordingly.
func (s *Store) WatchCount(ctx context.Context, collectionPath string, opts ...storagemodels.Option) <-chan storagemodels.CountEvent {
	options := applyOptions(opts)
	snapshots := s.buildQuery(collectionPath, storagemodels.Options{
		Transform: options.Transform,
	}).Snapshots(ctx)

	events := make(chan storagemodels.CountEvent)
	go func() {
		defer close(events)
		for snap := range snapshots {
			var event storagemodels.CountEvent
			switch {
			case snap.Err != nil:
				event.Err = snap.Err
			case options.Predicate == nil:
				event.Count = snap.Size
			default:
				for _, doc := range snap.Docs {
					if options.Predicate(record(doc)) {
						event.Count++
					}
				}
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
