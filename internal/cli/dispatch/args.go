package dispatch

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ledgermesh-go/internal/cli/hostport"
)

// Names of the flags shared by every subcommand.
const (
	ConfigFlagName   = "config"
	LogLevelFlagName = "log-level"
)

// Args is a read-only snapshot of one parsed command line.
type Args struct {
	command      CommandID
	values       map[string]any
	set          map[string]bool
	positional   []string
	multiprocess int
}

// NewArgs builds a snapshot from explicit values. The dispatcher builds
// snapshots from parsed contexts; NewArgs is for callers that dispatch
// handlers directly.
func NewArgs(command CommandID, values map[string]any, positional ...string) *Args {
	a := &Args{
		command:      command,
		values:       maps.Clone(values),
		set:          make(map[string]bool, len(values)),
		positional:   slices.Clone(positional),
		multiprocess: 1,
	}
	if a.values == nil {
		a.values = map[string]any{}
	}
	for name := range a.values {
		a.set[name] = true
	}
	if m, ok := a.values[MultiprocessFlagName].(*Multiprocess); ok {
		a.multiprocess = m.Resolve(nil)
		a.values[MultiprocessFlagName] = a.multiprocess
	}
	return a
}

// snapshot freezes the flags visible from c.
func snapshot(c *cli.Context, id CommandID, cpus func() int) *Args {
	a := &Args{
		command:      id,
		values:       make(map[string]any),
		set:          make(map[string]bool),
		positional:   slices.Clone(c.Args().Slice()),
		multiprocess: 1,
	}

	var flags []cli.Flag
	for _, ctx := range c.Lineage() {
		if ctx.Command != nil {
			flags = append(flags, ctx.Command.Flags...)
		}
	}
	flags = append(flags, c.App.Flags...)

	for _, f := range flags {
		names := f.Names()
		if len(names) == 0 {
			continue
		}
		name := names[0]
		if _, seen := a.values[name]; seen {
			continue
		}
		v := c.Value(name)
		if m, ok := v.(*Multiprocess); ok {
			a.multiprocess = m.Resolve(cpus)
			v = a.multiprocess
		}
		a.values[name] = v
		a.set[name] = c.IsSet(name)
	}
	return a
}

// Command returns the invoked subcommand.
func (a *Args) Command() CommandID {
	return a.command
}

// Get returns the raw value of a flag and whether the flag is known.
func (a *Args) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// IsSet reports whether the flag was given on the command line.
func (a *Args) IsSet(name string) bool {
	return a.set[name]
}

// String returns a flag value as a string. Unknown flags yield "".
func (a *Args) String(name string) string {
	switch v := a.values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int returns a flag value as an int. Unknown or non-numeric flags yield 0.
func (a *Args) Int(name string) int {
	switch v := a.values[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// Bool returns a flag value as a bool.
func (a *Args) Bool(name string) bool {
	v, _ := a.values[name].(bool)
	return v
}

// HostPort returns a host:port flag value.
func (a *Args) HostPort(name string) (hostport.HostPort, bool) {
	switch v := a.values[name].(type) {
	case hostport.HostPort:
		return v, !v.IsZero()
	case *hostport.Value:
		return v.HostPort(), !v.HostPort().IsZero()
	default:
		return hostport.HostPort{}, false
	}
}

// Positional returns the arguments left after flag parsing.
func (a *Args) Positional() []string {
	return slices.Clone(a.positional)
}

// ConfigPath returns the --config value.
func (a *Args) ConfigPath() string {
	return a.String(ConfigFlagName)
}

// LogLevel returns the --log-level value.
func (a *Args) LogLevel() string {
	return a.String(LogLevelFlagName)
}

// Multiprocess returns the resolved worker count (1 unless the command
// declares --multiprocess and it was given).
func (a *Args) Multiprocess() int {
	return a.multiprocess
}

// Names returns the known flag names in sorted order.
func (a *Args) Names() []string {
	return slices.Sorted(maps.Keys(a.values))
}
