package dispatch

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ledgermesh-go/internal/cli/coerce"
	"github.com/yndnr/ledgermesh-go/internal/core/domain"
)

// MultiprocessFlagName is the long name of the worker count flag.
const MultiprocessFlagName = "multiprocess"

// Multiprocess is a flag.Value with three states:
// absent, present without a value (one worker per CPU) and present with N.
type Multiprocess struct {
	set   bool
	count int
}

// MultiprocessFlag returns the --multiprocess/-m flag.
func MultiprocessFlag() *cli.GenericFlag {
	return &cli.GenericFlag{
		Name:    MultiprocessFlagName,
		Aliases: []string{"m"},
		Usage:   "run `N` worker processes; without N, one per CPU",
		Value:   &Multiprocess{},
	}
}

// IsBoolFlag lets the flag appear without a value.
func (m *Multiprocess) IsBoolFlag() bool { return true }

// Set implements flag.Value.
func (m *Multiprocess) Set(raw string) error {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "":
		m.set, m.count = true, 0
		return nil
	case "false":
		m.set, m.count = false, 0
		return nil
	}

	n, err := coerce.Value(raw, coerce.Int)
	if err != nil {
		return err
	}
	if n < 1 {
		return domain.ErrInvalidValue.WithDetails("worker count must be at least 1, got " + strconv.Itoa(n))
	}
	m.set, m.count = true, n
	return nil
}

// String implements flag.Value. The result round-trips through Set.
func (m *Multiprocess) String() string {
	switch {
	case m == nil || !m.set:
		return ""
	case m.count == 0:
		return "true"
	default:
		return strconv.Itoa(m.count)
	}
}

// Get implements flag.Getter.
func (m *Multiprocess) Get() any {
	return m
}

// Reset returns m to the absent state.
func (m *Multiprocess) Reset() {
	m.set, m.count = false, 0
}

// IsSet reports whether the flag appeared on the command line.
func (m *Multiprocess) IsSet() bool {
	return m != nil && m.set
}

// Resolve returns the worker count: 1 when absent, cpus() when given
// without a value, N otherwise.
func (m *Multiprocess) Resolve(cpus func() int) int {
	if !m.IsSet() {
		return 1
	}
	if m.count > 0 {
		return m.count
	}
	if cpus == nil {
		cpus = runtime.NumCPU
	}
	return max(cpus(), 1)
}

// normalizeArgs joins "--multiprocess N" into "--multiprocess=N" for every
// name in names. Tokens after "--" are left alone.
func normalizeArgs(argv []string, names map[string]bool) []string {
	if len(names) == 0 {
		return argv
	}
	out := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if tok == "--" {
			out = append(out, argv[i:]...)
			break
		}
		name := strings.TrimLeft(tok, "-")
		if name != tok && names[name] && i+1 < len(argv) {
			if _, err := strconv.Atoi(argv[i+1]); err == nil {
				out = append(out, tok+"="+argv[i+1])
				i++
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

// multiprocessNames collects the names and aliases of every Multiprocess
// flag declared in app.
func multiprocessNames(app *cli.App) map[string]bool {
	names := make(map[string]bool)
	collect := func(flags []cli.Flag) {
		for _, f := range flags {
			g, ok := f.(*cli.GenericFlag)
			if !ok {
				continue
			}
			if _, ok := g.Value.(*Multiprocess); !ok {
				continue
			}
			for _, n := range g.Names() {
				names[n] = true
			}
		}
	}
	collect(app.Flags)
	var walk func(cmds []*cli.Command)
	walk = func(cmds []*cli.Command) {
		for _, cmd := range cmds {
			collect(cmd.Flags)
			walk(cmd.Subcommands)
		}
	}
	walk(app.Commands)
	return names
}
