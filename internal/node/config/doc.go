// Package config defines the node configuration tree for LedgerMesh.
//
//   - spec.go: NodeConfig struct (server, database, log sections)
//   - default.go: defaults and the default discovery path
//   - verify.go: validation
//   - sanitize.go: secret masking for display
//   - persist.go: YAML persistence used by `ledgermesh configure`
//
// Loading (file, environment) lives in internal/infra/confloader; the
// process-wide handle lives in internal/bootstrap.
package config
