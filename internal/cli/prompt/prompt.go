package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/yndnr/ledgermesh-go/internal/cli/coerce"
)

// Prompter reads answers from an input stream and writes questions to an
// output stream. It is not safe for concurrent use.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader

	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

// New creates a Prompter bound to stdin and stderr.
func New() *Prompter {
	return NewWith(os.Stdin, os.Stderr)
}

// NewWith creates a Prompter with explicit streams.
func NewWith(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),

		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// ReadLine writes text and blocks until one line of input is available.
// The trailing newline is stripped. End of input with no data yields an
// empty answer.
func (p *Prompter) ReadLine(text string) (string, error) {
	if text != "" {
		if _, err := fmt.Fprint(p.out, text); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// Ask prompts with text and coerces the answer with s.
// An empty answer yields the strategy's default.
func Ask[T any](p *Prompter, text string, s coerce.Strategy[T]) (T, error) {
	line, err := p.ReadLine(text)
	if err != nil {
		var zero T
		return zero, err
	}
	return coerce.Value(line, s)
}

// Confirm asks a yes/no question. Anything but an explicit yes is false;
// unrecognised answers are reported as invalid values.
func (p *Prompter) Confirm(text string) (bool, error) {
	return Ask(p, text+" [y/N]: ", coerce.Bool.WithDefault(false))
}

// Secret reads a line without echo when the input is a terminal.
// Otherwise it behaves like ReadLine. Input already buffered by earlier
// prompts is consumed first, since it was typed with echo anyway.
func (p *Prompter) Secret(text string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || p.reader.Buffered() > 0 || !p.isTerminal(int(f.Fd())) {
		return p.ReadLine(text)
	}

	if _, err := fmt.Fprint(p.out, text); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	b, err := p.readPassword(int(f.Fd()))
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	if _, err := fmt.Fprintln(p.out); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	return string(b), nil
}
