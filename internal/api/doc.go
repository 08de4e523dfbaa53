// Package api handles incoming HTTP requests for the task API. Handlers
// decode requests, call the services and write the JSON envelope; errors
// are mapped to status codes and safe messages in errors.go.
package api
