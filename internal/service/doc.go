// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// (defined in internal/store) to fulfill application features.
//
// Services receive their stores and collaborators through constructor
// injection and never depend on a specific infrastructure implementation.
// Callers that act on behalf of a user pass the authenticated
// domain.Principal explicitly.
//
// Expected failures surface as sentinel errors (service, store, domain and
// auth packages) wrapped with %w; unexpected failures are wrapped in a
// ServiceError. The API layer maps both to HTTP status codes.
package service
