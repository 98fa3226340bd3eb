/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import "context"

// Ascending and Descending are the directions accepted by Query.OrderBy.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// Client is the handle to a backing document store. A single Client is
// acquired at construction time and reused for the lifetime of the wrapper;
// implementations must be safe for concurrent use.
type Client interface {
	// Collection resolves a collection path ("tasks", "teams/ab/tasks").
	Collection(path string) CollectionRef

	// Doc resolves a full document path ("tasks/123").
	Doc(path string) DocumentRef

	// Batch opens a new atomic write group. All staged writes commit
	// together or not at all.
	Batch() WriteBatch

	// Close releases the client's resources.
	Close() error
}

// Query is an immutable query handle. Refinement methods return a new Query
// and leave the receiver untouched, so a caller-supplied transform can never
// corrupt the base handle.
type Query interface {
	// Where adds a field filter. Supported ops are backend-defined; the
	// Firestore backend passes them through ("==", "<", "<=", ">", ">=",
	// "in", "array-contains", ...).
	Where(field, op string, value any) Query

	// OrderBy adds an ordering on field. dir is Ascending or Descending.
	OrderBy(field, dir string) Query

	// Limit caps the result set at n documents. Non-positive values are
	// handed to the backend untranslated; the Firestore backend rejects
	// them at execution time with an InvalidArgument store error.
	Limit(n int) Query

	// StartAfter positions the result set strictly after the given
	// document. The document acts as an opaque cursor; ordering for a
	// stale cursor follows whatever the backend defines.
	StartAfter(doc Document) Query

	// Documents executes the query once and returns the full result set
	// in the backend's delivery order.
	Documents(ctx context.Context) ([]Document, error)

	// Snapshots subscribes to the query. The channel delivers the initial
	// result set and then one snapshot per subsequent change, each holding
	// the latest full result set. It closes when ctx is done or after a
	// terminal error has been delivered.
	Snapshots(ctx context.Context) <-chan QuerySnapshot
}

// CollectionRef is a handle to a collection. It is also the base Query over
// that collection's documents.
type CollectionRef interface {
	Query

	// Doc resolves a child document by id.
	Doc(id string) DocumentRef

	// Add creates a document with a backend-generated id.
	Add(ctx context.Context, data map[string]any) (DocumentRef, error)
}

// DocumentRef is a handle to a single document, existing or not.
type DocumentRef interface {
	// ID is the document's identifier, the last path segment.
	ID() string

	// Path is the full document path.
	Path() string

	// Get fetches the document once. A missing document is not an error:
	// the returned Document reports Exists() == false.
	Get(ctx context.Context) (Document, error)

	// Set writes the full document, creating it if necessary.
	Set(ctx context.Context, data map[string]any) error

	// Update applies a partial field update to an existing document.
	Update(ctx context.Context, fields map[string]any) error

	// Delete removes the document.
	Delete(ctx context.Context) error

	// Snapshots subscribes to the document. Each event carries the latest
	// snapshot, including non-existent states. The channel closes when ctx
	// is done or after a terminal error has been delivered.
	Snapshots(ctx context.Context) <-chan DocumentSnapshot
}

// Document is one fetched document state. A Document also serves as the
// opaque pagination cursor for the backend that produced it.
type Document interface {
	// ID is the backing store's identifier for the document.
	ID() string

	// Ref returns a handle to the document's location.
	Ref() DocumentRef

	// Exists reports whether the document existed at snapshot time.
	Exists() bool

	// Data returns the raw field mapping. The returned map is owned by the
	// caller; mutating it does not affect the store.
	Data() map[string]any
}

// QuerySnapshot is one emission of a query subscription.
type QuerySnapshot struct {
	// Docs is the full result set at the time of the change.
	Docs []Document

	// Size is the backend's native result-set size, available without
	// touching Docs.
	Size int

	// Err is non-nil for the terminal emission of a failed subscription.
	Err error
}

// DocumentSnapshot is one emission of a document subscription.
type DocumentSnapshot struct {
	// Doc is the latest state; Exists() is false when the document is
	// absent. Doc is nil only when Err is non-nil.
	Doc Document

	// Err is non-nil for the terminal emission of a failed subscription.
	Err error
}

// WriteBatch is an atomic write group. Staging is local; nothing reaches the
// store until Commit, which applies every staged write or none of them.
// The backing store caps group size (500 for Firestore); exceeding the cap
// surfaces as a store error at commit time, not at staging time.
type WriteBatch interface {
	// Update stages a partial field update on ref.
	Update(ref DocumentRef, fields map[string]any) WriteBatch

	// Commit applies the group atomically.
	Commit(ctx context.Context) error
}
