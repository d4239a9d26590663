package bus

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"drawbridge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPublishSubscribe(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	b.Publish(domain.Request{Command: "create_rectangle", Channel: "test"})

	select {
	case req := <-b.Subscribe():
		if req.Command != "create_rectangle" {
			t.Fatalf("got %q", req.Command)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for request")
	}
}

func TestResponseRouting(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	got := make(chan domain.Response, 1)
	b.OnResponse("websocket", func(resp domain.Response) { got <- resp })

	b.SendResponse(domain.Response{Channel: "websocket", ID: "42"})

	select {
	case resp := <-got:
		if resp.ID != "42" {
			t.Fatalf("got id %q", resp.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for response")
	}
}

func TestResponse_NoHandlerIsDropped(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()
	// Must not panic.
	b.SendResponse(domain.Response{Channel: "nobody", ID: "1"})
}

func TestPublishAfterClose(t *testing.T) {
	b := New(10, testLogger())
	b.Close()
	// Must not panic.
	b.Publish(domain.Request{Command: "noop"})
}
