package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/ledgermesh-go/internal/cli/coerce"
	"github.com/yndnr/ledgermesh-go/internal/cli/dispatch"
	"github.com/yndnr/ledgermesh-go/internal/cli/hostport"
	"github.com/yndnr/ledgermesh-go/internal/cli/output"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/logger"
)

// Flag names used by the built-in commands.
const (
	flagYes         = "yes"
	flagOut         = "out"
	flagDBHost      = "db-host"
	flagFormat      = "format"
	flagWatchConfig = "watch-config"
	flagMetricsAddr = "metrics-addr"
)

var levelStrategy = coerce.Func(func(raw string) (string, error) {
	lvl, err := logger.ParseLevel(raw)
	if err != nil {
		return "", err
	}
	return logger.LevelName(lvl), nil
})

var formatStrategy = coerce.Func(output.ParseFormat)

// levelValue holds a validated log level name.
type levelValue struct {
	level string
}

func (v *levelValue) Set(raw string) error {
	level, err := coerce.Value(raw, levelStrategy)
	if err != nil {
		return err
	}
	v.level = level
	return nil
}

func (v *levelValue) String() string {
	if v == nil {
		return ""
	}
	return v.level
}

func (v *levelValue) Get() any {
	return v.level
}

func (v *levelValue) Reset() {
	v.level = ""
}

// formatValue holds a validated output format.
type formatValue struct {
	format output.Format
}

func (v *formatValue) Set(raw string) error {
	f, err := coerce.Value(raw, formatStrategy)
	if err != nil {
		return err
	}
	v.format = f
	return nil
}

func (v *formatValue) String() string {
	if v == nil {
		return ""
	}
	return string(v.format)
}

func (v *formatValue) Get() any {
	return string(v.format)
}

func (v *formatValue) Reset() {
	v.format = ""
}

// sharedFlags are declared on every subcommand.
func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      dispatch.ConfigFlagName,
			Aliases:   []string{"c"},
			Usage:     "load configuration from `FILE`",
			TakesFile: true,
		},
		&cli.GenericFlag{
			Name:    dispatch.LogLevelFlagName,
			Aliases: []string{"l"},
			Usage:   "console and logfile `LEVEL` (debug, info, warning, error, critical)",
			Value:   &levelValue{},
		},
	}
}

func dbHostFlag() cli.Flag {
	return &cli.GenericFlag{
		Name:  flagDBHost,
		Usage: "database address as `HOST:PORT`",
		Value: hostport.NewValue(hostport.HostPort{}),
	}
}

func withShared(flags ...cli.Flag) []cli.Flag {
	return append(sharedFlags(), flags...)
}
