// Package store defines interfaces for data persistence operations along with
// the shared error values and transaction helper used by their implementations.
// Business logic depends on these interfaces, never on a concrete database.
package store
