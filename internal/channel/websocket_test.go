package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"drawbridge/internal/bus"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/fetch"
	"drawbridge/internal/handler"
	"drawbridge/internal/scene"

	"github.com/gorilla/websocket"
)

// startStack brings up bus, dispatch loop, and a WebSocket channel on an
// ephemeral port, and returns a connected client.
func startStack(t *testing.T) *websocket.Conn {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	g := scene.New("Test", logger)
	g.SetEditable(true)
	reg := command.NewRegistry(logger)
	handler.RegisterAll(reg, handler.Deps{Fetch: fetch.New(0), Logger: logger})
	disp := command.NewDispatcher(reg, g, nil, logger)

	b := bus.New(0, logger)
	loop := command.NewLoop(b, disp, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)

	ws := NewWebSocket(WSConfig{Port: 0, Logger: logger})
	go func() {
		if err := ws.Start(ctx, b); err != nil {
			t.Log("channel stopped:", err)
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for ws.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("channel never bound")
		}
		time.Sleep(5 * time.Millisecond)
	}

	url := fmt.Sprintf("ws://%s/channel", ws.Addr().String())
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req domain.Request) domain.Response {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp domain.Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestExecuteCommandOverWebSocket(t *testing.T) {
	conn := startStack(t)

	resp := roundTrip(t, conn, domain.Request{
		Type: domain.MsgExecuteCommand, ID: "req-1", Command: "create_rectangle",
		Params: map[string]any{"name": "Box"},
	})
	if resp.Type != domain.MsgCommandResult {
		t.Fatalf("type = %s, error = %s", resp.Type, resp.Error)
	}
	if resp.ID != "req-1" || resp.Command != "create_rectangle" {
		t.Fatalf("bad correlation: %+v", resp)
	}
	if resp.Result["name"] != "Box" || resp.Result["success"] != true {
		t.Fatalf("unexpected result: %v", resp.Result)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Fatalf("timestamp %q not RFC3339: %v", resp.Timestamp, err)
	}
}

func TestUnknownCommandOverWebSocket(t *testing.T) {
	conn := startStack(t)

	resp := roundTrip(t, conn, domain.Request{
		Type: domain.MsgExecuteCommand, ID: "req-2", Command: "nope",
	})
	if resp.Type != domain.MsgCommandError {
		t.Fatalf("type = %s", resp.Type)
	}
	if !strings.Contains(resp.Error, "unknown command") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestUnsupportedMessageType(t *testing.T) {
	conn := startStack(t)

	resp := roundTrip(t, conn, domain.Request{Type: "ping", ID: "req-3"})
	if resp.Type != domain.MsgCommandError {
		t.Fatalf("type = %s", resp.Type)
	}
	if !strings.Contains(resp.Error, "unsupported message type") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestMalformedFrame(t *testing.T) {
	conn := startStack(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp domain.Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != domain.MsgCommandError || !strings.Contains(resp.Error, "malformed request") {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestStdioChannel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	g := scene.New("Test", logger)
	g.SetEditable(true)
	reg := command.NewRegistry(logger)
	handler.RegisterAll(reg, handler.Deps{Fetch: fetch.New(0), Logger: logger})
	disp := command.NewDispatcher(reg, g, nil, logger)

	b := bus.New(0, logger)
	loop := command.NewLoop(b, disp, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	s := NewStdio(StdioConfig{Logger: logger, In: inR, Out: outW})
	go s.Start(ctx, b)

	req, _ := json.Marshal(domain.Request{
		Type: domain.MsgExecuteCommand, ID: "s-1", Command: "get_document_info",
	})
	go func() {
		inW.Write(append(req, '\n'))
	}()

	dec := json.NewDecoder(outR)
	var resp domain.Response
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Type != domain.MsgCommandResult || resp.ID != "s-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	inW.Close()
}
