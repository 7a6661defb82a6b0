// Package dispatch runs the handler bound to the subcommand a user invoked.
//
// A Dispatcher takes a urfave/cli parser tree and a Registry of handlers.
// For every invocation it parses argv, freezes the parsed values into an
// Args snapshot, bootstraps process configuration and calls the handler.
//
// Parse failures and a missing subcommand are reported as cli.Exit errors
// with status 2; urfave/cli's HandleExitCoder is the only code path that
// terminates the process. Handler errors are returned to the caller as is.
//
// Handlers are keyed by CommandID rather than looked up by name at runtime,
// and Registry.Validate reports unbound commands at startup.
package dispatch
