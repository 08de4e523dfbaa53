// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the services can run against
// PostgreSQL in production and in-memory fakes in tests.
package store
