package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/ledgermesh-go/internal/cli/dispatch"
	"github.com/yndnr/ledgermesh-go/internal/cli/hostport"
	"github.com/yndnr/ledgermesh-go/internal/infra/buildinfo"
	"github.com/yndnr/ledgermesh-go/internal/infra/confloader"
	"github.com/yndnr/ledgermesh-go/internal/infra/shutdown"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/logger"
)

func (h *handlers) start(ctx context.Context, args *dispatch.Args) error {
	log := logger.L(ctx)
	cfg := h.state.Config()

	workers := args.Multiprocess()
	if !args.IsSet(dispatch.MultiprocessFlagName) && cfg.Server.Workers > 0 {
		workers = cfg.Server.Workers
	}

	db := hostport.HostPort{Host: cfg.Database.Host, Port: uint16(cfg.Database.Port)}
	if hp, ok := args.HostPort(flagDBHost); ok {
		db = hp
	}

	metricsAddr := cfg.Server.MetricsAddr
	if addr := args.String(flagMetricsAddr); addr != "" {
		if _, err := hostport.Parse(addr); err != nil {
			return fmt.Errorf("--%s: %w", flagMetricsAddr, err)
		}
		metricsAddr = addr
	}

	h.metrics.Workers.Set(float64(workers))
	console, file := logger.Levels()
	log.Info("starting node",
		"level_console", console,
		"level_logfile", file,
		"version", buildinfo.Version,
		"bind", cfg.Server.Bind,
		"workers", workers,
		"backend", cfg.Database.Backend,
		"database", db.String(),
		"config", h.state.ConfigPath())

	sd := shutdown.NewHandler(h.shutdownTimeout)

	if metricsAddr != "" {
		srv, err := h.serveMetrics(metricsAddr)
		if err != nil {
			return err
		}
		sd.OnShutdown(srv.Shutdown)
	}

	if args.Bool(flagWatchConfig) {
		w, err := h.watchConfig()
		if err != nil {
			return err
		}
		if w != nil {
			sd.OnShutdown(func(context.Context) error { return w.Stop() })
		}
	}

	log.Info("node started, press Ctrl+C to stop")
	err := sd.Wait(ctx)
	h.state.Logger().Info("node stopped")
	return err
}

func (h *handlers) serveMetrics(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", h.metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		h.state.Logger().Info("metrics listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.state.Logger().Error("metrics server error", "error", err)
		}
	}()
	return srv, nil
}

// watchConfig reloads the configuration when its file changes. Reloads run
// on the watcher goroutine, one at a time.
func (h *handlers) watchConfig() (*confloader.Watcher, error) {
	path := h.state.ConfigPath()
	if path == "" {
		h.state.Logger().Warn("no configuration file to watch")
		return nil, nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(h.state.Logger()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		err := h.state.Reload()
		h.metrics.ObserveReload(err)
		if err != nil {
			h.state.Logger().Error("configuration reload failed", "path", path, "error", err)
			return
		}
		console, file := logger.Levels()
		h.state.Logger().Info("configuration reloaded",
			"path", path,
			"level_console", console,
			"level_logfile", file)
	})
	w.StartAsync()
	return w, nil
}
