package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "LEDGERMESH_"

// Loader merges the configuration sources into a target struct.
type Loader struct {
	envPrefix string
	filePath  string
	overrides map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML file to read. The file must exist.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithOverrides sets values applied after every other source.
// Keys are dotted paths such as "log.level_console".
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) {
		l.overrides = values
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// source is one koanf layer. A nil parser means the provider yields a map.
type source struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

func (l *Loader) sources() []source {
	var srcs []source
	if l.filePath != "" {
		srcs = append(srcs, source{"file " + l.filePath, file.Provider(l.filePath), yaml.Parser()})
	}
	srcs = append(srcs, source{"env", env.Provider(l.envPrefix, ".", l.envKey), nil})
	if len(l.overrides) > 0 {
		srcs = append(srcs, source{"overrides", mapProvider(l.overrides), nil})
	}
	return srcs
}

// Load layers file, environment and overrides, in that order, over the
// values target already holds. Values are weakly typed, so "12" from the
// environment fills an int field.
func (l *Loader) Load(target any) error {
	k := koanf.New(".")
	for _, src := range l.sources() {
		if err := k.Load(src.provider, src.parser); err != nil {
			return fmt.Errorf("load %s: %w", src.name, err)
		}
	}
	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// envKey maps LEDGERMESH_LOG_LEVEL_CONSOLE to log.level_console. Only the
// first underscore after the prefix separates section from key.
func (l *Loader) envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, l.envPrefix))
	return strings.Replace(name, "_", ".", 1)
}
