/*
Package datastore defines the backing-store capability consumed by firekit.

The interfaces model a document database the way Firestore shapes one:
path-addressed collections and documents, immutable builder-style queries,
snapshot subscriptions for both documents and queries, and atomic write
groups. firekit's typed layer is written entirely against these interfaces,
so any implementation can be substituted without touching callers.

Implementations:
  - fsdb: Google Cloud Firestore
  - memdb: in-memory store with change notification, used in tests and as a
    fake for application code

Every method that can fail returns (or delivers) a store error from the
errors package; implementations do all the error translation so the typed
layer above passes failures through untouched.
*/
package datastore
