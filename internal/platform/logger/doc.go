// Package logger provides structured logging functionality for the application.
//
// It builds log/slog loggers from the server configuration (JSON in production,
// text elsewhere) and carries request-scoped loggers through context.Context.
package logger
