/*
Package fsdb implements the datastore interfaces on Google Cloud Firestore.

The binding is thin: query refinement maps onto firestore.Query builders,
subscriptions onto snapshot iterators and write groups onto WriteBatch. Two
Firestore behaviors are smoothed over to match the datastore contract:

  - fetching a missing document is a success with Exists() == false, not a
    NotFound error;
  - subscription channels close silently when the caller's context ends,
    instead of surfacing the SDK's Canceled status.

Everything else passes through, including Firestore's own handling of stale
cursors and its 500-write batch cap. Errors carry a Kind derived from the
gRPC status code; the SDK error remains the cause.
*/
package fsdb
