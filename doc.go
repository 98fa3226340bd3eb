/*
Package firekit is a typed convenience layer over a document database.

It does not store anything itself: every operation delegates to a backing
store implementing the datastore interfaces (Cloud Firestore in production
via datastore/fsdb, an in-memory store for tests via datastore/memdb). The
layer's own work is limited to building queries from caller-supplied
transforms, merging document ids into raw records before decoding, shaping
paginated results, and chunking bulk field updates into atomic write groups.

Decoding is explicit: every read operation takes a FromRecord function that
turns a raw field mapping into the caller's type. The mapping always carries
the store-assigned document id under "id", overwriting any payload value.

Basic usage:

	client, err := fsdb.New(ctx, "my-project")
	if err != nil {
	    return err
	}
	store := firekit.New(client)
	defer store.Close()

	taskFromRecord := func(record map[string]any) (Task, error) {
	    return Task{
	        ID:    record["id"].(string),
	        Title: record["title"].(string),
	    }, nil
	}

	// One page at a time.
	page, err := firekit.FetchPage(ctx, store, "tasks", taskFromRecord, 25)
	for page.HasMore {
	    page, err = firekit.FetchPage(ctx, store, "tasks", taskFromRecord, 25,
	        storagemodels.WithStartAfter(page.Cursor))
	}

	// Live updates.
	for event := range firekit.WatchCollection(ctx, store, "tasks", taskFromRecord) {
	    ...
	}

	// Bulk conditional update.
	n, err := store.UpdateWhere(ctx, "tasks", "state", "archived",
	    func(record map[string]any) bool { return record["done"] == true })

Failures are always the backing store's own, wrapped once into the errors
package's store error and never retried or translated further. Absence of a
document is a success value (nil), never an error.
*/
package firekit
