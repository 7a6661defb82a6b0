// Package domain defines the core domain types for LedgerMesh.
//
// The command core only needs the error taxonomy:
//
//   - ErrInvalidValue: coercion failures (recoverable)
//   - ErrUsage: malformed command lines (process exits non-zero)
//   - ErrNotImplemented: subcommand without a bound handler (wiring defect)
//   - ErrConfig: configuration load or validation failures
//
// Handler errors are never translated into any of these.
package domain
