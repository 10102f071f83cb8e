// Package cache provides the Redis-backed task list cache. TaskCache wraps a
// store.TaskStore, caches listing pages per owner and drops every page of an
// owner whenever one of their tasks changes.
package cache
