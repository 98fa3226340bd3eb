/*
Package registry maps collection paths to record decoders.

Registering a decoder once, typically from an init function, lets callers
fetch a collection without threading the decode function through every call
site:

	func init() {
	    registry.RegisterDecoder("tasks", func(record map[string]any) (any, error) {
	        return taskFromRecord(record)
	    })
	}

	tasks, err := store.FetchRegistered(ctx, "tasks")

Registration panics on duplicate paths; decoders are process-wide and meant
to be installed at startup.
*/
package registry
