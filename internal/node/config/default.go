package config

import (
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultBind    = "localhost:9984"
	DefaultWorkers = 0

	DefaultDBBackend = "localmongodb"
	DefaultDBHost    = "localhost"
	DefaultDBPort    = 27017
	DefaultDBName    = "ledgermesh"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default node configuration.
func Default() *NodeConfig {
	return &NodeConfig{
		Server: ServerSection{
			Bind:    DefaultBind,
			Workers: DefaultWorkers,
		},
		Database: DatabaseSection{
			Backend: DefaultDBBackend,
			Host:    DefaultDBHost,
			Port:    DefaultDBPort,
			Name:    DefaultDBName,
		},
		Log: LogSection{
			LevelConsole: DefaultLogLevel,
			LevelLogfile: DefaultLogLevel,
			Format:       DefaultLogFormat,
		},
	}
}

// DefaultConfigPath returns the path used when no --config is given.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".ledgermesh", "config.yaml")
}
