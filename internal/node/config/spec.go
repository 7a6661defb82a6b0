// Package config defines the node configuration tree.
package config

// NodeConfig is the root configuration for ledgermesh.
type NodeConfig struct {
	Server   ServerSection   `koanf:"server" yaml:"server" json:"server"`
	Database DatabaseSection `koanf:"database" yaml:"database" json:"database"`
	Log      LogSection      `koanf:"log" yaml:"log" json:"log"`
}

// ServerSection configures the node's network endpoints.
type ServerSection struct {
	// Bind is the API bind address in host:port form.
	Bind string `koanf:"bind" yaml:"bind" json:"bind"`

	// Workers is the worker process count used when --multiprocess is
	// absent. 0 leaves the command line in charge (one worker).
	Workers int `koanf:"workers" yaml:"workers" json:"workers"`

	// MetricsAddr serves /metrics when non-empty.
	MetricsAddr string `koanf:"metrics_addr" yaml:"metrics_addr,omitempty" json:"metrics_addr,omitempty"`
}

// DatabaseSection configures the backing database connection.
type DatabaseSection struct {
	Backend  string `koanf:"backend" yaml:"backend" json:"backend"`
	Host     string `koanf:"host" yaml:"host" json:"host"`
	Port     int    `koanf:"port" yaml:"port" json:"port"`
	Name     string `koanf:"name" yaml:"name" json:"name"`
	Password string `koanf:"password" yaml:"password,omitempty" json:"password,omitempty"`
}

// LogSection configures logging.
type LogSection struct {
	// File is the logfile path. Empty disables the logfile.
	File string `koanf:"file" yaml:"file,omitempty" json:"file,omitempty"`

	LevelConsole string `koanf:"level_console" yaml:"level_console" json:"level_console"`
	LevelLogfile string `koanf:"level_logfile" yaml:"level_logfile" json:"level_logfile"`

	// Format is the console format (text, json).
	Format string `koanf:"format" yaml:"format" json:"format"`
}
