package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/ledgermesh-go/internal/bootstrap"
	"github.com/yndnr/ledgermesh-go/internal/cli/hostport"
	"github.com/yndnr/ledgermesh-go/internal/core/domain"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/logger"
	"github.com/yndnr/ledgermesh-go/internal/telemetry/metric"
)

// exitRecorder swaps cli.OsExiter and cli.ErrWriter for the test.
type exitRecorder struct {
	codes  []int
	stderr bytes.Buffer
}

func recordExits(t *testing.T) *exitRecorder {
	t.Helper()
	rec := &exitRecorder{}
	oldExiter, oldErrWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(code int) { rec.codes = append(rec.codes, code) }
	cli.ErrWriter = &rec.stderr
	t.Cleanup(func() {
		cli.OsExiter = oldExiter
		cli.ErrWriter = oldErrWriter
	})
	return rec
}

func (r *exitRecorder) exited() bool {
	return len(r.codes) > 0
}

func (r *exitRecorder) lastCode() int {
	if len(r.codes) == 0 {
		return -1
	}
	return r.codes[len(r.codes)-1]
}

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: ConfigFlagName, Aliases: []string{"c"}},
		&cli.StringFlag{Name: LogLevelFlagName, Aliases: []string{"l"}},
	}
}

func testApp() *cli.App {
	return &cli.App{
		Name:      "ledgermesh",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands: []*cli.Command{
			{
				Name:  "configure",
				Flags: append(sharedFlags(), &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}}),
			},
			{
				Name: "start",
				Flags: append(sharedFlags(),
					MultiprocessFlag(),
					&cli.GenericFlag{Name: "db-host", Value: hostport.NewValue(hostport.HostPort{})},
				),
			},
			{
				Name:  "show-config",
				Flags: sharedFlags(),
			},
		},
	}
}

type fakeBootstrapper struct {
	calls []bootstrap.Request
	err   error
}

func (f *fakeBootstrapper) Bootstrap(req bootstrap.Request) error {
	f.calls = append(f.calls, req)
	return f.err
}

func TestStart_EmptyArgv(t *testing.T) {
	rec := recordExits(t)
	d := New(testApp(), Registry{})

	err := d.Start(context.Background(), nil)
	if err == nil {
		t.Fatal("Start() with no command should fail")
	}
	if rec.lastCode() != UsageExitCode {
		t.Errorf("exit code = %d, want %d", rec.lastCode(), UsageExitCode)
	}
	if !strings.Contains(rec.stderr.String(), "no command given") {
		t.Errorf("stderr = %q, want a usage message", rec.stderr.String())
	}
}

func TestStart_UnknownCommand(t *testing.T) {
	rec := recordExits(t)
	d := New(testApp(), Registry{})

	if err := d.Start(context.Background(), []string{"frobnicate"}); err == nil {
		t.Fatal("Start() with an unknown command should fail")
	}
	if rec.lastCode() != UsageExitCode {
		t.Errorf("exit code = %d, want %d", rec.lastCode(), UsageExitCode)
	}
	if !strings.Contains(rec.stderr.String(), `unknown command "frobnicate"`) {
		t.Errorf("stderr = %q", rec.stderr.String())
	}
}

func TestStart_NotImplemented(t *testing.T) {
	rec := recordExits(t)
	called := false
	d := New(testApp(), Registry{
		"configure": func(context.Context, *Args) error {
			called = true
			return nil
		},
	})

	err := d.Start(context.Background(), []string{"start"})
	if !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("Start() error = %v, want ErrNotImplemented", err)
	}
	if !strings.Contains(err.Error(), `"start"`) {
		t.Errorf("error %q should name the command", err)
	}
	if called {
		t.Error("no handler should run for an unbound command")
	}
	if rec.exited() {
		t.Errorf("unbound command must not exit the process, got codes %v", rec.codes)
	}
}

func TestStart_Multiprocess(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"absent", []string{"start"}, 1},
		{"bare long", []string{"start", "--multiprocess"}, 42},
		{"bare short", []string{"start", "-m"}, 42},
		{"separate value", []string{"start", "--multiprocess", "5"}, 5},
		{"short separate value", []string{"start", "-m", "3"}, 3},
		{"equals value", []string{"start", "--multiprocess=7"}, 7},
		{"bare before other flag", []string{"start", "--multiprocess", "--db-host", "db:1"}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recordExits(t)
			got := -1
			d := New(testApp(), Registry{
				"start": func(_ context.Context, args *Args) error {
					got = args.Multiprocess()
					return nil
				},
			}, WithCPUCount(func() int { return 42 }))

			if err := d.Start(context.Background(), tt.argv); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Multiprocess() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStart_ReusedDispatcherForgetsFlags(t *testing.T) {
	recordExits(t)
	var workers []int
	var hosts []bool
	d := New(testApp(), Registry{
		"start": func(_ context.Context, args *Args) error {
			workers = append(workers, args.Multiprocess())
			_, ok := args.HostPort("db-host")
			hosts = append(hosts, ok)
			return nil
		},
	}, WithCPUCount(func() int { return 42 }))

	runs := [][]string{
		{"start", "--multiprocess", "5", "--db-host", "db:1"},
		{"start"},
		{"start", "--multiprocess"},
		{"start"},
		{"start", "-m", "3"},
	}
	for _, argv := range runs {
		if err := d.Start(context.Background(), argv); err != nil {
			t.Fatalf("Start(%v) error = %v", argv, err)
		}
	}

	if want := []int{5, 1, 42, 1, 3}; !slices.Equal(workers, want) {
		t.Errorf("Multiprocess() per run = %v, want %v", workers, want)
	}
	if want := []bool{true, false, false, false, false}; !slices.Equal(hosts, want) {
		t.Errorf("db-host set per run = %v, want %v", hosts, want)
	}
}

func TestStart_MultiprocessInvalid(t *testing.T) {
	for _, argv := range [][]string{
		{"start", "--multiprocess", "0"},
		{"start", "--multiprocess=-2"},
		{"start", "--multiprocess=lots"},
	} {
		t.Run(strings.Join(argv, " "), func(t *testing.T) {
			rec := recordExits(t)
			called := false
			d := New(testApp(), Registry{
				"start": func(context.Context, *Args) error {
					called = true
					return nil
				},
			})

			if err := d.Start(context.Background(), argv); err == nil {
				t.Fatal("Start() should fail")
			}
			if rec.lastCode() != UsageExitCode {
				t.Errorf("exit code = %d, want %d", rec.lastCode(), UsageExitCode)
			}
			if called {
				t.Error("handler must not run after a usage error")
			}
		})
	}
}

func TestStart_FlagTypeError(t *testing.T) {
	rec := recordExits(t)
	d := New(testApp(), Registry{
		"start": func(context.Context, *Args) error { return nil },
	})

	err := d.Start(context.Background(), []string{"start", "--db-host", "localhost:11111111111"})
	if err == nil {
		t.Fatal("Start() should fail for a bad port")
	}
	if rec.lastCode() != UsageExitCode {
		t.Errorf("exit code = %d, want %d", rec.lastCode(), UsageExitCode)
	}
	if !strings.Contains(rec.stderr.String(), "bad port provided") {
		t.Errorf("stderr = %q, want the validator message", rec.stderr.String())
	}
}

func TestStart_HandlerCalledOnce(t *testing.T) {
	recordExits(t)
	calls := 0
	var seen *Args
	boot := &fakeBootstrapper{}
	d := New(testApp(), Registry{
		"start": func(ctx context.Context, args *Args) error {
			calls++
			seen = args
			if logger.RunIDFromContext(ctx) == "" {
				t.Error("context should carry a run id")
			}
			return nil
		},
	}, WithBootstrapper(boot), WithLogger(logger.Default()))

	argv := []string{"start", "-c", "/etc/lm.yaml", "--log-level", "debug", "--db-host", "db.internal:27018"}
	if err := d.Start(context.Background(), argv); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}

	if seen.Command() != "start" {
		t.Errorf("Command() = %q", seen.Command())
	}
	if seen.ConfigPath() != "/etc/lm.yaml" {
		t.Errorf("ConfigPath() = %q", seen.ConfigPath())
	}
	if seen.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q", seen.LogLevel())
	}
	hp, ok := seen.HostPort("db-host")
	if !ok || hp.Host != "db.internal" || hp.Port != 27018 {
		t.Errorf("HostPort(db-host) = %+v, %v", hp, ok)
	}

	if len(boot.calls) != 1 {
		t.Fatalf("bootstrap called %d times, want 1", len(boot.calls))
	}
	want := bootstrap.Request{ConfigPath: "/etc/lm.yaml", LogLevel: "debug"}
	if boot.calls[0] != want {
		t.Errorf("bootstrap request = %+v, want %+v", boot.calls[0], want)
	}
}

func TestStart_HandlerErrorUnchanged(t *testing.T) {
	rec := recordExits(t)
	sentinel := errors.New("handler failed")
	d := New(testApp(), Registry{
		"show-config": func(context.Context, *Args) error { return sentinel },
	})

	err := d.Start(context.Background(), []string{"show-config"})
	if err != sentinel {
		t.Errorf("Start() error = %v, want the handler error itself", err)
	}
	if rec.exited() {
		t.Errorf("handler error must not exit the process, got codes %v", rec.codes)
	}
}

func TestStart_HandlerExitCoderDoesNotExit(t *testing.T) {
	rec := recordExits(t)
	d := New(testApp(), Registry{
		"show-config": func(context.Context, *Args) error { return cli.Exit("stop here", 3) },
	})

	err := d.Start(context.Background(), []string{"show-config"})
	if rec.exited() {
		t.Fatalf("handler error must not exit the process, got codes %v", rec.codes)
	}
	var ec cli.ExitCoder
	if !errors.As(err, &ec) || ec.ExitCode() != 3 {
		t.Errorf("Start() error = %v, want the handler's exit coder", err)
	}
}

func TestStart_BootstrapErrorSkipsHandler(t *testing.T) {
	recordExits(t)
	called := false
	boot := &fakeBootstrapper{err: domain.ErrConfig}
	d := New(testApp(), Registry{
		"show-config": func(context.Context, *Args) error {
			called = true
			return nil
		},
	}, WithBootstrapper(boot))

	err := d.Start(context.Background(), []string{"show-config"})
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("Start() error = %v, want ErrConfig", err)
	}
	if called {
		t.Error("handler must not run when bootstrap fails")
	}
}

func TestStart_Metrics(t *testing.T) {
	recordExits(t)
	m := metric.NewRegistry()
	d := New(testApp(), Registry{
		"configure":   func(context.Context, *Args) error { return nil },
		"show-config": func(context.Context, *Args) error { return errors.New("boom") },
	}, WithMetrics(m))

	_ = d.Start(context.Background(), []string{"configure"})
	_ = d.Start(context.Background(), []string{"show-config"})
	_ = d.Start(context.Background(), []string{"start"})

	tests := []struct {
		command, result string
	}{
		{"configure", metric.ResultOK},
		{"show-config", metric.ResultError},
		{"start", metric.ResultNotImplemented},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.DispatchTotal.WithLabelValues(tt.command, tt.result)); got != 1 {
			t.Errorf("dispatch_total{%s,%s} = %v, want 1", tt.command, tt.result, got)
		}
	}
}
