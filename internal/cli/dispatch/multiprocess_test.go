package dispatch

import (
	"errors"
	"slices"
	"testing"

	"github.com/yndnr/ledgermesh-go/internal/core/domain"
)

func TestMultiprocess_Set(t *testing.T) {
	tests := []struct {
		raw     string
		wantSet bool
		want    int
		wantErr bool
	}{
		{"true", true, 8, false},
		{"", true, 8, false},
		{"false", false, 1, false},
		{"1", true, 1, false},
		{"12", true, 12, false},
		{"0", false, 1, true},
		{"-3", false, 1, true},
		{"many", false, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m := &Multiprocess{}
			err := m.Set(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidValue) {
				t.Errorf("Set(%q) error = %v, want ErrInvalidValue", tt.raw, err)
			}
			if m.IsSet() != tt.wantSet {
				t.Errorf("IsSet() = %v, want %v", m.IsSet(), tt.wantSet)
			}
			if got := m.Resolve(func() int { return 8 }); got != tt.want {
				t.Errorf("Resolve() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMultiprocess_StringRoundTrip(t *testing.T) {
	for _, raw := range []string{"true", "4"} {
		m := &Multiprocess{}
		if err := m.Set(raw); err != nil {
			t.Fatalf("Set(%q) error = %v", raw, err)
		}
		again := &Multiprocess{}
		if err := again.Set(m.String()); err != nil {
			t.Fatalf("Set(String()) error = %v", err)
		}
		if *again != *m {
			t.Errorf("round trip of %q = %+v, want %+v", raw, *again, *m)
		}
	}

	var nilValue *Multiprocess
	if nilValue.String() != "" {
		t.Error("nil Multiprocess should print empty")
	}
}

func TestMultiprocess_ResolveZeroCPUs(t *testing.T) {
	m := &Multiprocess{}
	_ = m.Set("true")
	if got := m.Resolve(func() int { return 0 }); got != 1 {
		t.Errorf("Resolve() = %d, want at least 1", got)
	}
}

func TestMultiprocess_Reset(t *testing.T) {
	m := &Multiprocess{}
	_ = m.Set("8")
	m.Reset()
	if m.IsSet() {
		t.Error("IsSet() should be false after Reset")
	}
	if got := m.Resolve(func() int { return 16 }); got != 1 {
		t.Errorf("Resolve() after Reset = %d, want 1", got)
	}
}

func TestNormalizeArgs(t *testing.T) {
	names := map[string]bool{"multiprocess": true, "m": true}
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"long with value", []string{"start", "--multiprocess", "5"}, []string{"start", "--multiprocess=5"}},
		{"short with value", []string{"start", "-m", "2", "-c", "x"}, []string{"start", "-m=2", "-c", "x"}},
		{"negative value", []string{"start", "-m", "-1"}, []string{"start", "-m=-1"}},
		{"bare", []string{"start", "--multiprocess", "--yes"}, []string{"start", "--multiprocess", "--yes"}},
		{"trailing", []string{"start", "-m"}, []string{"start", "-m"}},
		{"other flag", []string{"start", "--workers", "5"}, []string{"start", "--workers", "5"}},
		{"after terminator", []string{"start", "--", "-m", "5"}, []string{"start", "--", "-m", "5"}},
		{"positional named like flag", []string{"m", "5"}, []string{"m", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeArgs(tt.in, names)
			if !slices.Equal(got, tt.want) {
				t.Errorf("normalizeArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
