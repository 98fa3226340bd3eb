/*
Package storagemodels defines the data structures shared by firekit's typed
operations.

Key Types:

Page:
One page of a paginated fetch, with the opaque resume cursor:

	type Page[T any] struct {
	    Items   []T                // at most the requested page size
	    Cursor  datastore.Document // resume handle, nil when empty
	    HasMore bool               // more records exist beyond this page
	}

Events:
Watch operations deliver their emissions as event values over a channel,
one event per backing-store notification:

	DocumentEvent[T]   // latest decoded document, nil while absent
	FieldEvent         // latest raw value of one field
	CollectionEvent[T] // full re-decoded result set
	CountEvent         // latest result-set size
	PageEvent[T]       // freshly shaped first page

Options:
Query-capable operations take functional options:

	opts := []storagemodels.Option{
	    storagemodels.WithQuery(func(q datastore.Query) datastore.Query {
	        return q.Where("state", "==", "open").OrderBy("due", datastore.Ascending)
	    }),
	    storagemodels.WithLimit(100),
	}

These types keep the operation signatures consistent across backends.
*/
package storagemodels
