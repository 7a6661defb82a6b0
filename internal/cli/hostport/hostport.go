// Package hostport validates "host:port" command-line values.
//
// Value implements flag.Value, so it can be used as the type hook of a
// urfave/cli GenericFlag. A failing Set makes the parser report a usage
// error; this package never prints or exits on its own.
package hostport

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/yndnr/ledgermesh-go/internal/core/domain"
)

// Error messages reported through the parser.
const (
	msgNoPort  = "no port information provided"
	msgBadPort = "bad port provided"
	msgBadHost = "bad host provided"
)

// HostPort is a validated host and port pair.
type HostPort struct {
	Host string
	Port uint16
}

// String returns the host:port form.
func (hp HostPort) String() string {
	if hp.Host == "" {
		return ""
	}
	return net.JoinHostPort(hp.Host, strconv.Itoa(int(hp.Port)))
}

// IsZero reports whether hp is unset.
func (hp HostPort) IsZero() bool {
	return hp.Host == "" && hp.Port == 0
}

// Parse splits raw on its last colon and validates both halves.
// Bracketed IPv6 literals are not supported.
func Parse(raw string) (HostPort, error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return HostPort{}, invalid(msgNoPort, raw)
	}

	host, portStr := raw[:idx], raw[idx+1:]

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return HostPort{}, domain.ErrInvalidValue.
			WithDetails(fmt.Sprintf("%s: %q", msgBadPort, raw)).
			Wrap(err)
	}

	if host == "" {
		return HostPort{}, invalid(msgBadHost, raw)
	}

	return HostPort{Host: host, Port: uint16(port)}, nil
}

func invalid(msg, raw string) error {
	return domain.ErrInvalidValue.WithDetails(fmt.Sprintf("%s: %q", msg, raw))
}

// Value is a flag.Value holding a HostPort.
type Value struct {
	def HostPort
	hp  HostPort
	set bool
}

// NewValue returns a Value preset to def.
func NewValue(def HostPort) *Value {
	return &Value{def: def, hp: def}
}

// Set parses and stores raw. Errors are returned to the flag parser.
func (v *Value) Set(raw string) error {
	hp, err := Parse(raw)
	if err != nil {
		return err
	}
	v.hp = hp
	v.set = true
	return nil
}

// String returns the current value in host:port form.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return v.hp.String()
}

// Get returns the HostPort. It satisfies flag.Getter.
func (v *Value) Get() any {
	return v.hp
}

// HostPort returns the parsed value.
func (v *Value) HostPort() HostPort {
	return v.hp
}

// Reset restores the preset value and clears IsSet.
func (v *Value) Reset() {
	v.hp, v.set = v.def, false
}

// IsSet reports whether Set succeeded at least once.
func (v *Value) IsSet() bool {
	return v.set
}
