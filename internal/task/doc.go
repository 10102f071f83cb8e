// Package task runs background jobs. Producers push JSON-encoded jobs onto a
// Redis list; the worker process pops them, dispatches each to the handler
// registered for its name and re-queues failures until the attempt limit.
package task
