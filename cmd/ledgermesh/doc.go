// Command ledgermesh is the LedgerMesh node command-line interface.
//
// Usage:
//
//	ledgermesh configure [--yes] [--out FILE] [--db-host HOST:PORT]
//	ledgermesh show-config [--format table|json|yaml]
//	ledgermesh start [--multiprocess [N]] [--db-host HOST:PORT] [--watch-config] [--metrics-addr HOST:PORT]
//
// Every subcommand accepts --config/-c FILE and --log-level/-l LEVEL.
// Without --config, ~/.ledgermesh/config.yaml is read when it exists, and
// LEDGERMESH_SECTION_KEY environment variables override file values.
//
// Usage errors exit with status 2; other failures exit with status 1.
package main
