// Package bootstrap owns the process configuration handle.
//
// A State is created once in main and passed to the dispatcher, which calls
// Bootstrap before every handler. The first call loads the configuration
// tree (file, then environment); later calls leave the tree alone. Log level
// overrides from the command line are applied on every call.
//
// State is not safe for concurrent use. Dispatch is expected to be serialized.
package bootstrap

import (
	"fmt"
	"io"
	"os"

	"github.com/yndnr/ledgermesh-go/internal/core/domain"
	"github.com/yndnr/ledgermesh-go/internal/infra/confloader"
	"github.com/yndnr/ledgermesh-go/internal/node/config"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/logger"
)

// Request carries the command-line inputs relevant to bootstrapping.
type Request struct {
	// ConfigPath names the configuration file. Empty means default discovery.
	ConfigPath string
	// LogLevel, when set, overrides both log.level_console and log.level_logfile.
	LogLevel string
}

// State is the process configuration handle.
type State struct {
	cfg           *config.NodeConfig
	configured    bool
	configPath    string
	levelOverride string

	envPrefix   string
	defaultPath string
	console     io.Writer
	log         logger.Logger
	ownsLog     bool
	sinks       sinks
}

// sinks identifies the outputs of a built logger. Levels are not part of
// it: they change in place through logger.SetLevels.
type sinks struct {
	file   string
	format string
}

// Option configures a State.
type Option func(*State)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(s *State) {
		s.envPrefix = prefix
	}
}

// WithDefaultPath sets the file used when no config path is given.
// An empty path disables discovery.
func WithDefaultPath(path string) Option {
	return func(s *State) {
		s.defaultPath = path
	}
}

// WithConsole sets the console log writer (defaults to os.Stderr).
func WithConsole(w io.Writer) Option {
	return func(s *State) {
		s.console = w
	}
}

// New creates an unconfigured State holding the default tree.
func New(opts ...Option) *State {
	s := &State{
		cfg:         config.Default(),
		envPrefix:   confloader.DefaultEnvPrefix,
		defaultPath: config.DefaultConfigPath(),
		console:     os.Stderr,
		log:         logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether a configuration has been loaded.
func (s *State) Configured() bool {
	return s.configured
}

// Config returns the configuration tree. Before Bootstrap it holds defaults.
func (s *State) Config() *config.NodeConfig {
	return s.cfg
}

// ConfigPath returns the file the configuration was loaded from, if any.
func (s *State) ConfigPath() string {
	return s.configPath
}

// Logger returns the logger built by the last Bootstrap.
func (s *State) Logger() logger.Logger {
	return s.log
}

// Bootstrap loads the configuration on first use, applies the log level
// override and configures logging. The logger is rebuilt only when its
// sinks change; level changes are applied in place.
func (s *State) Bootstrap(req Request) error {
	if !s.configured {
		if err := s.load(req.ConfigPath, nil); err != nil {
			return err
		}
	}

	if req.LogLevel != "" {
		if _, err := logger.ParseLevel(req.LogLevel); err != nil {
			return domain.ErrConfig.WithDetails("log level").Wrap(err)
		}
		s.levelOverride = req.LogLevel
		s.cfg.Log.LevelConsole = req.LogLevel
		s.cfg.Log.LevelLogfile = req.LogLevel
	}

	return s.configureLogging()
}

// Reload re-reads the configuration from the same sources as the first
// load. A command-line level override stays in effect.
func (s *State) Reload() error {
	var overrides map[string]any
	if s.levelOverride != "" {
		overrides = map[string]any{
			"log.level_console": s.levelOverride,
			"log.level_logfile": s.levelOverride,
		}
	}
	if err := s.load(s.configPath, overrides); err != nil {
		return err
	}
	return s.configureLogging()
}

func (s *State) load(path string, overrides map[string]any) error {
	resolved := path
	if resolved == "" && s.defaultPath != "" {
		if _, err := os.Stat(s.defaultPath); err == nil {
			resolved = s.defaultPath
		}
	}

	opts := []confloader.Option{confloader.WithEnvPrefix(s.envPrefix)}
	if resolved != "" {
		opts = append(opts, confloader.WithConfigFile(resolved))
	}
	if overrides != nil {
		opts = append(opts, confloader.WithOverrides(overrides))
	}

	cfg := config.Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return domain.ErrConfig.WithDetails(describe(resolved)).Wrap(err)
	}
	if err := config.Verify(cfg); err != nil {
		return domain.ErrConfig.WithDetails(describe(resolved)).Wrap(err)
	}

	s.cfg = cfg
	s.configPath = resolved
	s.configured = true
	return nil
}

func (s *State) configureLogging() error {
	want := sinks{file: s.cfg.Log.File, format: s.cfg.Log.Format}
	if s.ownsLog && want == s.sinks {
		if err := logger.SetLevels(s.cfg.Log.LevelConsole, s.cfg.Log.LevelLogfile); err != nil {
			return domain.ErrConfig.WithDetails("logging").Wrap(err)
		}
		return nil
	}

	l, err := logger.New(logger.Config{
		Level:     s.cfg.Log.LevelConsole,
		FileLevel: s.cfg.Log.LevelLogfile,
		File:      s.cfg.Log.File,
		Format:    s.cfg.Log.Format,
		Output:    s.console,
	})
	if err != nil {
		return domain.ErrConfig.WithDetails("logging").Wrap(err)
	}

	prev := s.log
	s.log = l
	logger.SetDefault(l)
	if c, ok := prev.(io.Closer); ok && s.ownsLog {
		_ = c.Close()
	}
	s.ownsLog = true
	s.sinks = want
	return nil
}

func describe(path string) string {
	if path == "" {
		return "defaults and environment"
	}
	return fmt.Sprintf("file %s", path)
}
