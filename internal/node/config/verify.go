package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/ledgermesh-go/internal/cli/hostport"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *NodeConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyDatabase(&cfg.Database); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if _, err := hostport.Parse(cfg.Bind); err != nil {
		return fmt.Errorf("server.bind: %w", err)
	}
	if cfg.Workers < 0 {
		return errors.New("server.workers must not be negative")
	}
	if cfg.MetricsAddr != "" {
		if _, err := hostport.Parse(cfg.MetricsAddr); err != nil {
			return fmt.Errorf("server.metrics_addr: %w", err)
		}
	}
	return nil
}

func verifyDatabase(cfg *DatabaseSection) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return errors.New("database.host is required")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("database.port %d out of range", cfg.Port)
	}
	if cfg.Name == "" {
		return errors.New("database.name is required")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.LevelConsole); err != nil {
		return fmt.Errorf("log.level_console: %w", err)
	}
	if _, err := logger.ParseLevel(cfg.LevelLogfile); err != nil {
		return fmt.Errorf("log.level_logfile: %w", err)
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", cfg.Format)
	}
	return nil
}
