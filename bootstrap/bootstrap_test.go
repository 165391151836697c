package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/authkit/config"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
)

type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), WithLogger(logger.Nop()), WithSummaryOutput(&out))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app, &out
}

func recorder(calls *[]string, name string, err error) Hook {
	return func(context.Context) error {
		*calls = append(*calls, name)
		return err
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
	if app.Logger == nil || app.Summary == nil {
		t.Error("expected logger and summary")
	}
	if app.Cfg.Logging.Level == "" {
		t.Error("expected config defaults to be applied")
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := newTestConfig("svc", "")
	cfg.Environment = "moon"
	if _, err := NewApp(cfg, WithLogger(logger.Nop())); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app, _ := newTestApp(t)
	var calls []string
	app.OnStart(recorder(&calls, "start-1", nil), recorder(&calls, "start-2", nil))
	app.OnReady(recorder(&calls, "ready", nil))
	app.OnStop(recorder(&calls, "stop-1", nil), recorder(&calls, "stop-2", nil))

	err := app.RunTask(context.Background(), func(context.Context) error {
		calls = append(calls, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{"start-1", "start-2", "ready", "task", "stop-2", "stop-1"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestRunTaskError(t *testing.T) {
	app, _ := newTestApp(t)
	boom := errors.New("boom")
	if err := app.RunTask(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestStartHookFailureStillStops(t *testing.T) {
	app, _ := newTestApp(t)
	var calls []string
	app.OnStop(recorder(&calls, "close-db", nil))
	app.OnStart(recorder(&calls, "open-db", nil), recorder(&calls, "provision", errors.New("denied")))

	err := app.RunTask(context.Background(), func(context.Context) error {
		calls = append(calls, "task")
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "onStart") {
		t.Fatalf("err = %v, want onStart failure", err)
	}
	want := []string{"open-db", "provision", "close-db"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestStopRunsEveryHookAndJoinsErrors(t *testing.T) {
	app, _ := newTestApp(t)
	errA, errB := errors.New("a"), errors.New("b")
	var calls []string
	app.OnStop(recorder(&calls, "a", errA), recorder(&calls, "b", errB))

	err := app.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("err = %v, want both stop errors", err)
	}
	if len(calls) != 2 {
		t.Errorf("calls = %v", calls)
	}
	if err := app.Shutdown(); err != nil {
		t.Errorf("second Shutdown = %v, want nil", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app, _ := newTestApp(t)
	stopped := false
	app.OnStop(func(context.Context) error { stopped = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error { cancel(); return nil })

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !stopped {
		t.Error("stop hook did not run")
	}
}

func TestGracefulTimeoutBoundsStopHooks(t *testing.T) {
	var out bytes.Buffer
	app, err := NewApp(newTestConfig("svc", ""), WithLogger(logger.Nop()), WithSummaryOutput(&out), WithGracefulTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	var deadline time.Time
	app.OnStop(func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	})
	_ = app.Shutdown()

	if d := time.Until(deadline); d <= 0 || d > 2*time.Second {
		t.Errorf("stop deadline in %v, want within 2s", d)
	}
}

func TestSummaryDisplay(t *testing.T) {
	app, out := newTestApp(t)
	app.Summary.TrackInfrastructure("database", "sqlite users", true)
	app.Summary.TrackRoute("POST", "/auth/register", "Assembler.Register")
	app.Summary.TrackHealth(observability.HealthCheckerFunc(func(context.Context) observability.Health {
		return observability.Health{Name: "identity-store", Status: observability.HealthStatusDegraded, Message: "store not initialized"}
	}))

	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	s := out.String()
	for _, want := range []string{"test-svc 1.0.0 started", "database: sqlite users", "/auth/register", "Routes (1)", "Health (degraded)", "store not initialized"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTreePrefix(t *testing.T) {
	if treePrefix(0, 2) != "├──" || treePrefix(1, 2) != "└──" {
		t.Error("unexpected tree prefixes")
	}
}
