// Package logging wraps log/slog construction for crate.
//
// It provides console and JSON handlers, optional mirroring into a log file,
// attribute helpers, and component-scoped loggers so every record carries the
// subsystem that emitted it. Tests use NewNop to silence output.
package logging
