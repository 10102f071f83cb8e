// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver, and ships the embedded goose migrations that
// create the users and tasks tables.
package postgres
