package prompt

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/yndnr/ledgermesh-go/internal/cli/coerce"
	"github.com/yndnr/ledgermesh-go/internal/core/domain"
)

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("I love cats\n"), &out)

	got, err := p.ReadLine("say something: ")
	if err != nil {
		t.Fatalf("ReadLine() error = %v", err)
	}
	if got != "I love cats" {
		t.Errorf("ReadLine() = %q, want %q", got, "I love cats")
	}
	if out.String() != "say something: " {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestReadLine_CRLF(t *testing.T) {
	p := NewWith(strings.NewReader("windows\r\n"), &bytes.Buffer{})
	got, err := p.ReadLine("")
	if err != nil || got != "windows" {
		t.Errorf("ReadLine() = %q, %v; want %q", got, err, "windows")
	}
}

func TestReadLine_EOF(t *testing.T) {
	p := NewWith(strings.NewReader("no newline"), &bytes.Buffer{})
	got, err := p.ReadLine("")
	if err != nil || got != "no newline" {
		t.Errorf("ReadLine() = %q, %v", got, err)
	}

	got, err = p.ReadLine("")
	if err != nil || got != "" {
		t.Errorf("ReadLine() at EOF = %q, %v; want empty answer", got, err)
	}
}

func TestReadLine_SequentialAnswers(t *testing.T) {
	p := NewWith(strings.NewReader("first\nsecond\n"), &bytes.Buffer{})

	a, _ := p.ReadLine("1: ")
	b, _ := p.ReadLine("2: ")
	if a != "first" || b != "second" {
		t.Errorf("answers = %q, %q; want first, second", a, b)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestReadLine_WriteError(t *testing.T) {
	p := NewWith(strings.NewReader("x\n"), failingWriter{})
	if _, err := p.ReadLine("q: "); err == nil {
		t.Error("ReadLine() should fail when the prompt cannot be written")
	}
}

func TestAsk(t *testing.T) {
	p := NewWith(strings.NewReader("42\n\n3.5\nTRVE\n"), &bytes.Buffer{})

	n, err := Ask(p, "workers: ", coerce.Int.WithDefault(1))
	if err != nil || n != 42 {
		t.Errorf("Ask(int) = %d, %v; want 42", n, err)
	}

	n, err = Ask(p, "workers: ", coerce.Int.WithDefault(1))
	if err != nil || n != 1 {
		t.Errorf("Ask(int, empty) = %d, %v; want default 1", n, err)
	}

	f, err := Ask(p, "ratio: ", coerce.Float)
	if err != nil || f != 3.5 {
		t.Errorf("Ask(float) = %v, %v; want 3.5", f, err)
	}

	_, err = Ask(p, "enabled: ", coerce.Bool.WithDefault(false))
	if !errors.Is(err, domain.ErrInvalidValue) {
		t.Errorf("Ask(bool, TRVE) error = %v, want ErrInvalidValue", err)
	}
}

func TestAsk_WritesToOutNotStdout(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("x\n"), &out)

	if _, err := Ask(p, "name: ", coerce.String); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(out.String(), "name: ") {
		t.Errorf("prompt not written to out: %q", out.String())
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewWith(strings.NewReader(tt.input), &out)
		got, err := p.Confirm("overwrite?")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != "overwrite? [y/N]: " {
			t.Errorf("Confirm prompt = %q", out.String())
		}
	}
}

func TestSecret_NonTerminal(t *testing.T) {
	p := NewWith(strings.NewReader("s3cret\n"), &bytes.Buffer{})
	got, err := p.Secret("password: ")
	if err != nil || got != "s3cret" {
		t.Errorf("Secret() = %q, %v", got, err)
	}
}

// terminalPrompter reads from a pipe that claims to be a terminal.
func terminalPrompter(t *testing.T, input string, out *bytes.Buffer) *Prompter {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	if _, err := w.WriteString(input); err != nil {
		t.Fatalf("write input: %v", err)
	}
	w.Close()

	p := NewWith(r, out)
	p.isTerminal = func(int) bool { return true }
	return p
}

func TestSecret_Terminal(t *testing.T) {
	var out bytes.Buffer
	p := terminalPrompter(t, "", &out)
	p.readPassword = func(int) ([]byte, error) { return []byte("hunter2"), nil }

	got, err := p.Secret("password: ")
	if err != nil || got != "hunter2" {
		t.Fatalf("Secret() = %q, %v", got, err)
	}
	if out.String() != "password: \n" {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestSecret_TerminalBufferedInput(t *testing.T) {
	var out bytes.Buffer
	p := terminalPrompter(t, "alice\nhunter2\n", &out)
	p.readPassword = func(int) ([]byte, error) {
		t.Error("buffered input must be read before the terminal")
		return nil, nil
	}

	if name, err := p.ReadLine("user: "); err != nil || name != "alice" {
		t.Fatalf("ReadLine() = %q, %v", name, err)
	}
	got, err := p.Secret("password: ")
	if err != nil || got != "hunter2" {
		t.Errorf("Secret() = %q, %v", got, err)
	}
}

func TestSecret_TerminalWriteError(t *testing.T) {
	p := terminalPrompter(t, "", &bytes.Buffer{})
	p.out = failingWriter{}
	p.readPassword = func(int) ([]byte, error) { return []byte("x"), nil }

	if _, err := p.Secret("password: "); err == nil {
		t.Error("Secret() should report a failed prompt write")
	}
}

func TestSecret_TerminalReadError(t *testing.T) {
	p := terminalPrompter(t, "", &bytes.Buffer{})
	p.readPassword = func(int) ([]byte, error) { return nil, errors.New("tty gone") }

	if _, err := p.Secret("password: "); err == nil {
		t.Error("Secret() should report a failed terminal read")
	}
}
