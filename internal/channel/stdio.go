package channel

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"drawbridge/internal/domain"
)

// Stdio is a line-delimited JSON channel: one request per line on stdin,
// one response per line on stdout. Useful for scripting and for driving
// the command surface from a pipe.
type Stdio struct {
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
	bus    domain.CommandBus
}

type StdioConfig struct {
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
}

func NewStdio(cfg StdioConfig) *Stdio {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Stdio{logger: cfg.Logger, in: cfg.In, out: cfg.Out}
}

func (s *Stdio) Name() string { return "stdio" }

// Start reads lines until EOF or cancellation.
func (s *Stdio) Start(ctx context.Context, bus domain.CommandBus) error {
	s.bus = bus

	bus.OnResponse(s.Name(), func(resp domain.Response) {
		data, err := json.Marshal(resp)
		if err != nil {
			s.logger.Error("response marshal failed", "id", resp.ID, "err", err)
			return
		}
		_, _ = fmt.Fprintln(s.out, string(data))
	})

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	seq := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req domain.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			data, _ := json.Marshal(domain.Response{
				Type:      domain.MsgCommandError,
				Error:     "malformed request: " + err.Error(),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			_, _ = fmt.Fprintln(s.out, string(data))
			continue
		}

		seq++
		req.Channel = s.Name()
		req.ClientID = fmt.Sprintf("stdio-%d", seq)
		s.bus.Publish(req)
	}
}

func (s *Stdio) Stop() error { return nil }
