// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. Stores accept a store.DBTX so they run
// equally against a pool or a transaction. The schema lives in embedded goose
// migrations applied with Migrate.
package postgres
