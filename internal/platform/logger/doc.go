// Package logger provides structured JSON logging built on log/slog,
// with helpers for carrying request-scoped loggers in a context.
package logger
