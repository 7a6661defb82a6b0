package coerce

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yndnr/ledgermesh-go/internal/core/domain"
)

// Kind identifies the conversion a Strategy performs.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindFunc
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindFunc:
		return "func"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Strategy describes how a raw string becomes a T, and what to return
// when the raw string is empty.
//
// Strategies are values; WithDefault returns a modified copy.
type Strategy[T any] struct {
	kind       Kind
	convert    func(string) (T, error)
	def        T
	hasDefault bool
}

// Predefined strategies.
var (
	String = Strategy[string]{kind: KindString, convert: identity}
	Bool   = Strategy[bool]{kind: KindBool, convert: ParseBool}
	Int    = Strategy[int]{kind: KindInt, convert: parseInt}
	Float  = Strategy[float64]{kind: KindFloat, convert: parseFloat}
)

// Func returns a strategy that converts with fn.
func Func[T any](fn func(string) (T, error)) Strategy[T] {
	return Strategy[T]{kind: KindFunc, convert: fn}
}

// WithDefault returns a copy of s that yields v for empty input.
func (s Strategy[T]) WithDefault(v T) Strategy[T] {
	s.def = v
	s.hasDefault = true
	return s
}

// Kind returns the strategy kind.
func (s Strategy[T]) Kind() Kind {
	return s.kind
}

// Default returns the configured default, if any.
func (s Strategy[T]) Default() (T, bool) {
	return s.def, s.hasDefault
}

// Value converts raw according to s.
//
// An empty raw string short-circuits: the default is returned unchanged when
// one is set, otherwise the zero value of T (the empty string for String).
// No conversion is attempted in either case.
func Value[T any](raw string, s Strategy[T]) (T, error) {
	if raw == "" {
		return s.def, nil
	}

	if s.convert == nil {
		// Zero Strategy: opaque string passthrough when T allows it.
		if v, ok := any(raw).(T); ok {
			return v, nil
		}
		var zero T
		return zero, domain.ErrInvalidValue.WithDetails(
			fmt.Sprintf("no conversion to %T for %q", zero, raw))
	}

	v, err := s.convert(raw)
	if err != nil {
		var zero T
		if errors.Is(err, domain.ErrInvalidValue) {
			return zero, err
		}
		return zero, domain.ErrInvalidValue.
			WithDetails(fmt.Sprintf("%q cannot be converted to %s", raw, s.kind)).
			Wrap(err)
	}
	return v, nil
}

var (
	trueTokens  = []string{"true", "t", "yes", "y", "1"}
	falseTokens = []string{"false", "f", "no", "n", "0"}
)

// ParseBool accepts true/t/yes/y/1 and false/f/no/n/0, case-insensitively.
// Anything else is an invalid value; ambiguous spellings are never guessed.
func ParseBool(raw string) (bool, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range trueTokens {
		if token == t {
			return true, nil
		}
	}
	for _, f := range falseTokens {
		if token == f {
			return false, nil
		}
	}
	return false, domain.ErrInvalidValue.WithDetails(
		fmt.Sprintf("%q cannot be converted to bool", raw))
}

func identity(raw string) (string, error) {
	return raw, nil
}

func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func parseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}
