package history

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"drawbridge/internal/command"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"), logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.Record(ctx, command.AuditEntry{
		Command:    "create_rectangle",
		Params:     map[string]any{"width": 100},
		OK:         true,
		DurationMS: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = s.Record(ctx, command.AuditEntry{
		Command:   "get_node_info",
		OK:        false,
		ErrorKind: "NotFound",
		Error:     "node not found: abc",
	})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Most recent first.
	if entries[0].Command != "get_node_info" || entries[0].OK {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].ErrorKind != "NotFound" {
		t.Fatalf("error kind = %q", entries[0].ErrorKind)
	}
	if entries[1].Params != `{"width":100}` {
		t.Fatalf("params = %q", entries[1].Params)
	}
}

func TestPrune_NoRetentionIsNoop(t *testing.T) {
	s := testStore(t)
	n, err := s.Prune(context.Background(), 0)
	if err != nil || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}
