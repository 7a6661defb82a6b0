package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/yndnr/ledgermesh-go/internal/cli/coerce"
	"github.com/yndnr/ledgermesh-go/internal/cli/dispatch"
	"github.com/yndnr/ledgermesh-go/internal/cli/hostport"
	"github.com/yndnr/ledgermesh-go/internal/cli/prompt"
	"github.com/yndnr/ledgermesh-go/internal/core/domain"
	"github.com/yndnr/ledgermesh-go/internal/node/config"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/logger"
)

// maxAttempts bounds how often an invalid answer is asked again.
const maxAttempts = 3

var (
	bindStrategy = coerce.Func(func(raw string) (string, error) {
		hp, err := hostport.Parse(raw)
		if err != nil {
			return "", err
		}
		return hp.String(), nil
	})

	portStrategy = coerce.Func(func(raw string) (int, error) {
		n, err := coerce.Value(raw, coerce.Int)
		if err != nil {
			return 0, err
		}
		if n < 1 || n > 65535 {
			return 0, domain.ErrInvalidValue.WithDetails("port must be between 1 and 65535")
		}
		return n, nil
	})

	workersStrategy = coerce.Func(func(raw string) (int, error) {
		n, err := coerce.Value(raw, coerce.Int)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, domain.ErrInvalidValue.WithDetails("worker count must not be negative")
		}
		return n, nil
	})
)

func (h *handlers) configure(ctx context.Context, args *dispatch.Args) error {
	log := logger.L(ctx)
	cfg := *h.state.Config()

	dbHost, dbHostSet := args.HostPort(flagDBHost)
	if dbHostSet {
		cfg.Database.Host = dbHost.Host
		cfg.Database.Port = int(dbHost.Port)
	}

	path := h.configurePath(args)

	if !args.Bool(flagYes) {
		if err := h.questionnaire(&cfg, !dbHostSet); err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			ok, err := h.prompter.Confirm(fmt.Sprintf("%s exists, overwrite?", path))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(h.stderr, "Aborted, nothing written.")
				return nil
			}
		}
	}

	if err := config.Verify(&cfg); err != nil {
		return domain.ErrConfig.WithDetails("generated configuration").Wrap(err)
	}
	if err := config.Save(&cfg, path); err != nil {
		return err
	}

	log.Info("configuration written", "path", path)
	fmt.Fprintf(h.stdout, "Configuration written to %s\n", path)
	return nil
}

// configurePath picks --out, then the file the configuration came from,
// then the default location.
func (h *handlers) configurePath(args *dispatch.Args) string {
	if out := args.String(flagOut); out != "" {
		return out
	}
	if p := h.state.ConfigPath(); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func (h *handlers) questionnaire(cfg *config.NodeConfig, askDatabase bool) error {
	var err error

	if cfg.Server.Bind, err = ask(h, question("API bind address", cfg.Server.Bind),
		bindStrategy.WithDefault(cfg.Server.Bind)); err != nil {
		return err
	}

	if askDatabase {
		if cfg.Database.Host, err = ask(h, question("Database host", cfg.Database.Host),
			coerce.String.WithDefault(cfg.Database.Host)); err != nil {
			return err
		}
		if cfg.Database.Port, err = ask(h, question("Database port", strconv.Itoa(cfg.Database.Port)),
			portStrategy.WithDefault(cfg.Database.Port)); err != nil {
			return err
		}
	}

	if cfg.Database.Name, err = ask(h, question("Database name", cfg.Database.Name),
		coerce.String.WithDefault(cfg.Database.Name)); err != nil {
		return err
	}

	password, err := h.prompter.Secret("Database password (empty keeps the current one): ")
	if err != nil {
		return err
	}
	if password != "" {
		cfg.Database.Password = password
	}

	if cfg.Server.Workers, err = ask(h, question("Worker processes, 0 for one", strconv.Itoa(cfg.Server.Workers)),
		workersStrategy.WithDefault(cfg.Server.Workers)); err != nil {
		return err
	}

	level, err := ask(h, question("Log level", cfg.Log.LevelConsole),
		levelStrategy.WithDefault(cfg.Log.LevelConsole))
	if err != nil {
		return err
	}
	cfg.Log.LevelConsole = level
	cfg.Log.LevelLogfile = level
	return nil
}

func question(label, current string) string {
	return fmt.Sprintf("%s [%s]: ", label, current)
}

// ask repeats the question while the answer is an invalid value.
func ask[T any](h *handlers, text string, s coerce.Strategy[T]) (T, error) {
	var err error
	for range maxAttempts {
		var v T
		v, err = prompt.Ask(h.prompter, text, s)
		if err == nil || !errors.Is(err, domain.ErrInvalidValue) {
			return v, err
		}
		fmt.Fprintf(h.stderr, "  %v\n", err)
	}
	var zero T
	return zero, err
}
