/*
Package errors defines the single error taxonomy surfaced by firekit.

Every failure in the library is a backing-store failure. Backends wrap the
store's own error into an *Error carrying a machine-readable Kind and keep
the original error as the cause, so both Kind checks and errors.Is/As against
the provider's types keep working.

Usage:

	page, err := firekit.FetchPage[Task](ctx, store, "tasks", taskFromRecord, 25)
	if err != nil {
	    if errors.IsPermissionDenied(err) {
	        // surface an auth problem to the user
	    }
	    return err
	}

	// Or switch on the kind directly:
	switch errors.KindOf(err) {
	case errors.Unavailable, errors.DeadlineExceeded:
	    // worth retrying at the application level
	}

The library performs no retries and no local validation; kinds are derived
from whatever the backing store reports (for the Firestore backend, from the
gRPC status code via GRPCKind).
*/
package errors
