package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/ledgermesh-go/internal/bootstrap"
	"github.com/yndnr/ledgermesh-go/internal/core/domain"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/logger"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/metric"
)

// UsageExitCode is the process exit status for command-line usage errors.
const UsageExitCode = 2

// Bootstrapper prepares process configuration before a handler runs.
type Bootstrapper interface {
	Bootstrap(req bootstrap.Request) error
}

// Dispatcher routes parsed command lines to registered handlers.
type Dispatcher struct {
	app          *cli.App
	registry     Registry
	bootstrapper Bootstrapper
	cpus         func() int
	metrics      *metric.Registry
	log          logger.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBootstrapper runs b before every handler.
func WithBootstrapper(b Bootstrapper) Option {
	return func(d *Dispatcher) {
		d.bootstrapper = b
	}
}

// WithCPUCount overrides the CPU count used by a bare --multiprocess.
func WithCPUCount(fn func() int) Option {
	return func(d *Dispatcher) {
		d.cpus = fn
	}
}

// WithMetrics records dispatch outcomes in m.
func WithMetrics(m *metric.Registry) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithLogger fixes the dispatch logger. By default the process default
// logger is used, as installed by the bootstrapper.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// New creates a dispatcher over app. Actions and usage error hooks of app
// are replaced when Start runs.
func New(app *cli.App, reg Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		app:      app,
		registry: reg,
		cpus:     runtime.NumCPU,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.registry == nil {
		d.registry = Registry{}
	}
	return d
}

// Start parses argv (without the program name) and runs the selected
// handler. Usage errors exit the process through cli.OsExiter with
// UsageExitCode; the returned error is the same cli.ExitCoder. Handler
// errors are returned unchanged, except that a cli.ExitCoder is wrapped so
// it never exits the process.
func (d *Dispatcher) Start(ctx context.Context, argv []string) error {
	d.bind()
	args := append([]string{d.app.Name}, normalizeArgs(argv, multiprocessNames(d.app))...)
	return d.app.RunContext(ctx, args)
}

// Resetter is implemented by flag values that keep state between parses.
// Start resets them so a reused parser tree sees every flag as absent
// unless the current argv sets it.
type Resetter interface {
	Reset()
}

func resetFlags(flags []cli.Flag) {
	for _, f := range flags {
		g, ok := f.(*cli.GenericFlag)
		if !ok {
			continue
		}
		if r, ok := g.Value.(Resetter); ok {
			r.Reset()
		}
	}
}

func (d *Dispatcher) bind() {
	resetFlags(d.app.Flags)
	d.app.OnUsageError = usageError
	d.app.Action = d.missingCommand
	walkCommands(d.app.Commands, nil, func(path []string, cmd *cli.Command) {
		resetFlags(cmd.Flags)
		cmd.Action = d.action(commandID(path))
		cmd.OnUsageError = usageError
	})
	var groups func(cmds []*cli.Command)
	groups = func(cmds []*cli.Command) {
		for _, cmd := range cmds {
			if len(cmd.Subcommands) > 0 {
				resetFlags(cmd.Flags)
				cmd.OnUsageError = usageError
				groups(cmd.Subcommands)
			}
		}
	}
	groups(d.app.Commands)
}

// usageError turns a parse failure into a usage exit.
func usageError(_ *cli.Context, err error, _ bool) error {
	return cli.Exit(domain.ErrUsage.WithDetails(err.Error()), UsageExitCode)
}

// missingCommand is the root action: reached with no arguments or with a
// first argument that names no command.
func (d *Dispatcher) missingCommand(c *cli.Context) error {
	d.printUsage(c)
	if c.NArg() == 0 {
		return cli.Exit(domain.ErrUsage.WithDetails("no command given"), UsageExitCode)
	}
	return cli.Exit(domain.ErrUsage.WithDetails(fmt.Sprintf("unknown command %q", c.Args().First())), UsageExitCode)
}

func (d *Dispatcher) printUsage(c *cli.Context) {
	var names []string
	for _, id := range CommandIDs(c.App) {
		names = append(names, string(id))
	}
	fmt.Fprintf(c.App.ErrWriter, "usage: %s <command> [options]\n", c.App.Name)
	if len(names) > 0 {
		fmt.Fprintf(c.App.ErrWriter, "commands: %s\n", strings.Join(names, ", "))
	}
}

func (d *Dispatcher) action(id CommandID) cli.ActionFunc {
	return func(c *cli.Context) error {
		args := snapshot(c, id, d.cpus)

		start := time.Now()
		err := d.dispatch(c.Context, args)
		d.metrics.ObserveDispatch(string(id), resultLabel(err), time.Since(start))
		return err
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, args *Args) error {
	id := args.Command()
	h, ok := d.registry.Lookup(id)
	if !ok {
		return domain.ErrNotImplemented.WithDetails(fmt.Sprintf("command %q", id))
	}

	if d.bootstrapper != nil {
		req := bootstrap.Request{
			ConfigPath: args.ConfigPath(),
			LogLevel:   args.LogLevel(),
		}
		if err := d.bootstrapper.Bootstrap(req); err != nil {
			return err
		}
	}

	ctx = logger.WithLogger(ctx, d.logger().With("command", string(id)))
	ctx = logger.WithRunID(ctx, ulid.Make().String())

	logger.L(ctx).Debug("dispatching", "multiprocess", args.Multiprocess(), "flags", args.Names())
	return shieldExit(id, h(ctx, args))
}

// shieldExit wraps handler errors that urfave/cli would otherwise turn
// into a process exit. The wrapped error still matches errors.As.
func shieldExit(id CommandID, err error) error {
	switch err.(type) {
	case cli.ExitCoder, cli.MultiError:
		return fmt.Errorf("command %q: %w", id, err)
	default:
		return err
	}
}

func (d *Dispatcher) logger() logger.Logger {
	if d.log != nil {
		return d.log
	}
	return logger.Default()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metric.ResultOK
	case errors.Is(err, domain.ErrNotImplemented):
		return metric.ResultNotImplemented
	default:
		return metric.ResultError
	}
}
