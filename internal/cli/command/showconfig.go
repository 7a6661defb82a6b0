package command

import (
	"context"

	"github.com/yndnr/ledgermesh-go/internal/cli/dispatch"
	"github.com/yndnr/ledgermesh-go/internal/cli/output"
	"github.com/yndnr/ledgermesh-go/internal/node/config"
)

func (h *handlers) showConfig(_ context.Context, args *dispatch.Args) error {
	format := output.Format(args.String(flagFormat))
	return output.NewFormatter(format).Format(h.stdout, config.Sanitize(h.state.Config()))
}
