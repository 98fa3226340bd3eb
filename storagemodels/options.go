/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/suparena/firekit/datastore"
)

// DefaultBatchSize is the default atomic write group size for conditional
// updates. It matches Firestore's per-batch cap; the library does not
// enforce the cap itself.
const DefaultBatchSize = 500

// QueryTransform refines a base query handle with filters and orderings.
// It must not mutate its input; query handles are immutable builders, so a
// well-formed transform simply returns the refined handle.
type QueryTransform func(q datastore.Query) datastore.Query

// Predicate decides locally whether a raw record participates in an
// operation. It receives the record's field mapping with the synthesized
// "id" already merged in.
type Predicate func(record map[string]any) bool

// Options configures query-capable operations. Each operation honors the
// subset that applies to it and ignores the rest.
type Options struct {
	// Transform refines the base collection query. Nil means identity.
	Transform QueryTransform

	// Limit caps a plain collection fetch or watch. Zero means uncapped.
	// Paginated operations size pages with their own limit argument and
	// ignore this field.
	Limit int

	// StartAfter resumes a paginated fetch strictly after the given
	// cursor. Nil starts at the beginning.
	StartAfter datastore.Document

	// BatchSize is the atomic write group size for conditional updates.
	BatchSize int

	// Predicate filters records locally for count watches. Nil counts the
	// backend's native result-set size.
	Predicate Predicate
}

// Option is a functional option for query-capable operations.
type Option func(*Options)

// DefaultOptions returns the options applied before any Option runs.
func DefaultOptions() Options {
	return Options{
		BatchSize: DefaultBatchSize,
	}
}

// WithQuery sets the query transform.
func WithQuery(t QueryTransform) Option {
	return func(opts *Options) {
		opts.Transform = t
	}
}

// WithLimit caps a collection fetch or watch at n records.
func WithLimit(n int) Option {
	return func(opts *Options) {
		opts.Limit = n
	}
}

// WithStartAfter resumes pagination after the given cursor.
func WithStartAfter(cursor datastore.Document) Option {
	return func(opts *Options) {
		opts.StartAfter = cursor
	}
}

// WithBatchSize sets the atomic write group size for conditional updates.
func WithBatchSize(n int) Option {
	return func(opts *Options) {
		opts.BatchSize = n
	}
}

// WithPredicate filters count watches locally. Counting with a predicate
// materializes every record on each change; without one the backend's
// native size is used.
func WithPredicate(p Predicate) Option {
	return func(opts *Options) {
		opts.Predicate = p
	}
}
