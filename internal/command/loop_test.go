package command

import (
	"context"
	"strings"
	"testing"
	"time"

	"drawbridge/internal/bus"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func newTestLoop(t *testing.T) (*Loop, *bus.InMemoryBus) {
	t.Helper()
	reg := NewRegistry(testLogger())
	reg.Register(Command{
		Name: "echo",
		Handler: func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error) {
			return Result{"echo": p.String(params.Name, "")}, nil
		},
	})
	disp := NewDispatcher(reg, newTestGraph(true), nil, testLogger())
	b := bus.New(8, testLogger())
	return NewLoop(b, disp, testLogger()), b
}

func TestHandleResultEnvelope(t *testing.T) {
	l, _ := newTestLoop(t)

	resp := l.Handle(context.Background(), domain.Request{
		Type: domain.MsgExecuteCommand, ID: "1", Command: "echo",
		Params:  map[string]any{"name": "hi"},
		Channel: "test", ClientID: "c1",
	})
	if resp.Type != domain.MsgCommandResult {
		t.Fatalf("type = %s, error = %s", resp.Type, resp.Error)
	}
	if resp.ID != "1" || resp.Command != "echo" || resp.Channel != "test" || resp.ClientID != "c1" {
		t.Fatalf("routing fields lost: %+v", resp)
	}
	if resp.Result["echo"] != "hi" {
		t.Fatalf("result = %v", resp.Result)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Fatalf("timestamp %q: %v", resp.Timestamp, err)
	}
}

func TestHandleErrorEnvelope(t *testing.T) {
	l, _ := newTestLoop(t)

	resp := l.Handle(context.Background(), domain.Request{
		Type: domain.MsgExecuteCommand, ID: "2", Command: "nope",
	})
	if resp.Type != domain.MsgCommandError {
		t.Fatalf("type = %s", resp.Type)
	}
	if !strings.Contains(resp.Error, "unknown command") {
		t.Fatalf("error = %q", resp.Error)
	}
	if resp.Result != nil {
		t.Fatal("error envelope must not carry a result")
	}
}

func TestHandleRejectsOtherTypes(t *testing.T) {
	l, _ := newTestLoop(t)

	resp := l.Handle(context.Background(), domain.Request{Type: "ping", ID: "3"})
	if resp.Type != domain.MsgCommandError || !strings.Contains(resp.Error, "unsupported message type") {
		t.Fatalf("unexpected: %+v", resp)
	}
}

func TestRunRoutesResponses(t *testing.T) {
	l, b := newTestLoop(t)

	got := make(chan domain.Response, 1)
	b.OnResponse("test", func(r domain.Response) { got <- r })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	b.Publish(domain.Request{
		Type: domain.MsgExecuteCommand, ID: "4", Command: "echo", Channel: "test",
	})

	select {
	case resp := <-got:
		if resp.ID != "4" || resp.Type != domain.MsgCommandResult {
			t.Fatalf("unexpected response: %+v", resp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no response within deadline")
	}
}

func TestRunStopsOnBusClose(t *testing.T) {
	l, b := newTestLoop(t)

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()

	b.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after bus close")
	}
}
