/*
Package memdb implements the datastore interfaces in memory.

It exists for tests and local development: documents live in maps, queries
evaluate locally and subscriptions are fed by an in-process broadcast on
every mutation. Semantics follow the Firestore backend where they matter to
callers — default ordering by document id, cursors positioned by captured
field values so stale cursors keep working, all-or-nothing write groups,
absent documents as successful Exists() == false fetches.

Fault injection mirrors the fluent style of a mock:

	store := memdb.New().
	    WithCommitErrAfter(1, errors.New(errors.Unavailable, nil, "backend down"))

Filters support ==, !=, <, <=, > and >= over strings, numbers, booleans and
timestamps. Anything fancier belongs in a local Predicate.
*/
package memdb
