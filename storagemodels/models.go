/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/suparena/firekit/datastore"
)

// Page is one page of a paginated fetch.
type Page[T any] struct {
	// Items holds at most the requested page size of decoded records, in
	// the backing store's delivery order.
	Items []T

	// Cursor is the backing store's handle for the last record retained in
	// Items. Pass it to the next fetch to resume strictly after this page.
	// Nil when Items is empty.
	Cursor datastore.Document

	// HasMore reports whether the store held more records beyond this
	// page at fetch time.
	HasMore bool
}

// DocumentEvent is one emission of a document watch. Value carries the
// decoded document, or nil while the document does not exist.
type DocumentEvent[T any] struct {
	Value *T
	Err   error
}

// FieldEvent is one emission of a single-field watch. Value is the raw
// field value, or nil when the document or field is absent.
type FieldEvent struct {
	Value any
	Err   error
}

// CollectionEvent is one emission of a collection watch, carrying the full
// re-decoded result set.
type CollectionEvent[T any] struct {
	Items []T
	Err   error
}

// CountEvent is one emission of a result-count watch.
type CountEvent struct {
	Count int
	Err   error
}

// PageEvent is one emission of a paginated watch, carrying the freshly
// shaped first page of the subscribed query.
type PageEvent[T any] struct {
	Page Page[T]
	Err  error
}
