package dispatch

import (
	"context"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ledgermesh-go/internal/core/domain"
)

// CommandID identifies a subcommand by its path in the parser tree.
// Nested commands are joined with a space ("db init").
type CommandID string

// Handler runs one subcommand.
type Handler func(ctx context.Context, args *Args) error

// Registry binds command IDs to handlers.
type Registry map[CommandID]Handler

// Lookup returns the handler bound to id.
func (r Registry) Lookup(id CommandID) (Handler, bool) {
	h, ok := r[id]
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}

// Validate reports every id in ids that has no handler.
func (r Registry) Validate(ids ...CommandID) error {
	var missing []string
	for _, id := range ids {
		if _, ok := r.Lookup(id); !ok {
			missing = append(missing, string(id))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return domain.ErrNotImplemented.WithDetails("unbound commands: " + strings.Join(missing, ", "))
}

// CommandIDs lists the runnable commands declared in app, depth first.
// Commands with subcommands are groups and are not listed themselves.
func CommandIDs(app *cli.App) []CommandID {
	var ids []CommandID
	walkCommands(app.Commands, nil, func(path []string, _ *cli.Command) {
		ids = append(ids, commandID(path))
	})
	return ids
}

func walkCommands(cmds []*cli.Command, parent []string, fn func(path []string, cmd *cli.Command)) {
	for _, cmd := range cmds {
		if cmd.Name == "help" {
			continue
		}
		path := append(slices.Clone(parent), cmd.Name)
		if len(cmd.Subcommands) > 0 {
			walkCommands(cmd.Subcommands, path, fn)
			continue
		}
		fn(path, cmd)
	}
}

func commandID(path []string) CommandID {
	return CommandID(strings.Join(path, " "))
}
