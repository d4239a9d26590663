package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
	"drawbridge/internal/scene"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAuditor collects entries in memory.
type stubAuditor struct {
	entries []AuditEntry
	fail    error
}

func (a *stubAuditor) Record(ctx context.Context, e AuditEntry) error {
	a.entries = append(a.entries, e)
	return a.fail
}

func newTestGraph(editable bool) *scene.Graph {
	g := scene.New("Test", testLogger())
	g.SetEditable(editable)
	return g
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register(Command{Name: "beta", Doc: "b"})
	reg.Register(Command{Name: "alpha", Doc: "a"})

	if _, ok := reg.Get("alpha"); !ok {
		t.Fatal("alpha not found")
	}
	if _, ok := reg.Get("ALPHA"); ok {
		t.Fatal("lookup must be exact match")
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("names = %v", names)
	}
}

func TestDispatchSuccessInjection(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register(Command{
		Name: "bare",
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			return Result{"value": 42}, nil
		},
	})
	d := NewDispatcher(reg, newTestGraph(true), nil, testLogger())

	res, err := d.Dispatch(context.Background(), "bare", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res["success"] != true || res["value"] != 42 {
		t.Fatalf("unexpected result: %v", res)
	}
}

func TestDispatchNilResult(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register(Command{
		Name: "empty",
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			return nil, nil
		},
	})
	d := NewDispatcher(reg, newTestGraph(true), nil, testLogger())

	res, err := d.Dispatch(context.Background(), "empty", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res["success"] != true {
		t.Fatalf("unexpected result: %v", res)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := NewDispatcher(NewRegistry(testLogger()), newTestGraph(true), nil, testLogger())

	_, err := d.Dispatch(context.Background(), "missing", nil)
	if kind := cmderr.KindOf(err); kind != cmderr.UnknownCommand {
		t.Fatalf("kind = %s", kind)
	}
}

func TestDispatchModeGate(t *testing.T) {
	reg := NewRegistry(testLogger())
	called := false
	reg.Register(Command{
		Name:             "mutate",
		RequiresEditable: true,
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			called = true
			return Result{}, nil
		},
	})
	d := NewDispatcher(reg, newTestGraph(false), nil, testLogger())

	_, err := d.Dispatch(context.Background(), "mutate", nil)
	if kind := cmderr.KindOf(err); kind != cmderr.WrongMode {
		t.Fatalf("kind = %s", kind)
	}
	if called {
		t.Fatal("handler ran despite read-only document")
	}
}

func TestDispatchPanicRecovery(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register(Command{
		Name: "boom",
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			panic("kaput")
		},
	})
	d := NewDispatcher(reg, newTestGraph(true), nil, testLogger())

	_, err := d.Dispatch(context.Background(), "boom", nil)
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}
	if kind := cmderr.KindOf(err); kind != cmderr.Generic {
		t.Fatalf("kind = %s", kind)
	}
}

func TestDispatchPreservesHandlerKind(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register(Command{
		Name: "fontless",
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			return nil, cmderr.New(cmderr.Font, "family unavailable")
		},
	})
	d := NewDispatcher(reg, newTestGraph(true), nil, testLogger())

	_, err := d.Dispatch(context.Background(), "fontless", nil)
	if kind := cmderr.KindOf(err); kind != cmderr.Font {
		t.Fatalf("kind = %s, want %s", kind, cmderr.Font)
	}
	var ce *cmderr.Error
	if !errors.As(err, &ce) {
		t.Fatal("expected structured error")
	}
}

func TestDispatchAuditsBothOutcomes(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register(Command{
		Name: "ok",
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			return Result{}, nil
		},
	})
	audit := &stubAuditor{}
	d := NewDispatcher(reg, newTestGraph(true), audit, testLogger())

	d.Dispatch(context.Background(), "ok", map[string]any{"k": "v"})
	d.Dispatch(context.Background(), "missing", nil)

	if len(audit.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(audit.entries))
	}
	if !audit.entries[0].OK || audit.entries[0].Command != "ok" {
		t.Fatalf("first entry: %+v", audit.entries[0])
	}
	if audit.entries[1].OK || audit.entries[1].ErrorKind != string(cmderr.UnknownCommand) {
		t.Fatalf("second entry: %+v", audit.entries[1])
	}
}

func TestDispatchSurvivesAuditFailure(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register(Command{
		Name: "ok",
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			return Result{}, nil
		},
	})
	audit := &stubAuditor{fail: errors.New("disk full")}
	d := NewDispatcher(reg, newTestGraph(true), audit, testLogger())

	if _, err := d.Dispatch(context.Background(), "ok", nil); err != nil {
		t.Fatalf("audit failure leaked into dispatch: %v", err)
	}
}
