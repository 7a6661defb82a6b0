// Package command defines the ledgermesh parser tree and the handlers of
// the built-in subcommands.
package command

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ledgermesh-go/internal/bootstrap"
	"github.com/yndnr/ledgermesh-go/internal/cli/dispatch"
	"github.com/yndnr/ledgermesh-go/internal/cli/prompt"
	"github.com/yndnr/ledgermesh-go/internal/infra/buildinfo"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/metric"
)

// Built-in command IDs.
const (
	CmdConfigure  dispatch.CommandID = "configure"
	CmdShowConfig dispatch.CommandID = "show-config"
	CmdStart      dispatch.CommandID = "start"
)

// App creates the parser tree. Actions are bound by the dispatcher.
func App() *cli.App {
	return &cli.App{
		Name:    "ledgermesh",
		Usage:   "LedgerMesh node command-line interface",
		Version: buildinfo.String(),
		Commands: []*cli.Command{
			{
				Name:  string(CmdConfigure),
				Usage: "Generate a configuration file interactively",
				Flags: withShared(
					&cli.BoolFlag{
						Name:    flagYes,
						Aliases: []string{"y"},
						Usage:   "accept current values without prompting",
					},
					&cli.StringFlag{
						Name:      flagOut,
						Aliases:   []string{"o"},
						Usage:     "write the configuration to `FILE`",
						TakesFile: true,
					},
					dbHostFlag(),
				),
			},
			{
				Name:  string(CmdShowConfig),
				Usage: "Print the effective configuration",
				Flags: withShared(
					&cli.GenericFlag{
						Name:    flagFormat,
						Aliases: []string{"f"},
						Usage:   "output `FORMAT`: table, json or yaml",
						Value:   &formatValue{},
					},
				),
			},
			{
				Name:  string(CmdStart),
				Usage: "Start the node",
				Flags: withShared(
					dispatch.MultiprocessFlag(),
					dbHostFlag(),
					&cli.BoolFlag{
						Name:  flagWatchConfig,
						Usage: "reload the configuration file when it changes",
					},
					&cli.StringFlag{
						Name:  flagMetricsAddr,
						Usage: "serve /metrics on `HOST:PORT`",
					},
				),
			},
		},
	}
}

// handlers carries the dependencies of the built-in commands.
type handlers struct {
	state           *bootstrap.State
	prompter        *prompt.Prompter
	stdout          io.Writer
	stderr          io.Writer
	metrics         *metric.Registry
	shutdownTimeout time.Duration
}

// Option configures the built-in handlers.
type Option func(*handlers)

// WithPrompter sets the prompter used by configure.
func WithPrompter(p *prompt.Prompter) Option {
	return func(h *handlers) {
		h.prompter = p
	}
}

// WithOutput sets the writers for command results and diagnostics.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(h *handlers) {
		h.stdout = stdout
		h.stderr = stderr
	}
}

// WithMetrics sets the registry served by start.
func WithMetrics(m *metric.Registry) Option {
	return func(h *handlers) {
		h.metrics = m
	}
}

// WithShutdownTimeout bounds the shutdown hooks of start.
func WithShutdownTimeout(d time.Duration) Option {
	return func(h *handlers) {
		h.shutdownTimeout = d
	}
}

// Registry binds the built-in handlers to state.
func Registry(state *bootstrap.State, opts ...Option) dispatch.Registry {
	h := &handlers{
		state:           state,
		prompter:        prompt.New(),
		stdout:          os.Stdout,
		stderr:          os.Stderr,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = metric.NewRegistry()
	}

	return dispatch.Registry{
		CmdConfigure:  h.configure,
		CmdShowConfig: h.showConfig,
		CmdStart:      h.start,
	}
}

// Run wires configuration, metrics and handlers, then dispatches argv
// (without the program name).
func Run(ctx context.Context, argv []string) error {
	state := bootstrap.New()
	metrics := metric.NewRegistry()

	app := App()
	reg := Registry(state, WithMetrics(metrics))
	if err := reg.Validate(dispatch.CommandIDs(app)...); err != nil {
		return err
	}

	d := dispatch.New(app, reg,
		dispatch.WithBootstrapper(state),
		dispatch.WithMetrics(metrics),
	)
	return d.Start(ctx, argv)
}
