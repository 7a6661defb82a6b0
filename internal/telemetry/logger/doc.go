// Package logger provides structured logging for LedgerMesh.
//
//   - logger.go: slog setup, per-sink levels, package-level helpers
//   - tee.go: fan-out handler for the console and logfile sinks
//   - context.go: context-carried logger and run IDs
//   - redact.go: sensitive data redaction
//
// Levels are debug, info, warn, error and critical. The console level and
// the logfile level are independent and can be changed at runtime with
// SetLevels.
package logger
