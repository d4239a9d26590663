package command

import (
	"context"
	"log/slog"
	"time"

	"drawbridge/internal/domain"
)

// Loop consumes requests from the bus, dispatches them one at a time, and
// sends the response back to the originating channel. Single-goroutine by
// design: two commands never interleave below the granularity of one
// dispatch.
type Loop struct {
	bus    domain.CommandBus
	disp   *Dispatcher
	logger *slog.Logger
}

func NewLoop(bus domain.CommandBus, disp *Dispatcher, logger *slog.Logger) *Loop {
	return &Loop{bus: bus, disp: disp, logger: logger}
}

// Run blocks until the context is cancelled or the bus closes.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("command loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("command loop stopped", "reason", ctx.Err())
			return
		case req, ok := <-l.bus.Subscribe():
			if !ok {
				l.logger.Info("command loop stopped: bus closed")
				return
			}
			l.bus.SendResponse(l.Handle(ctx, req))
		}
	}
}

// Handle turns one request into a response envelope. Non-command message
// types are logged and answered with an error envelope.
func (l *Loop) Handle(ctx context.Context, req domain.Request) domain.Response {
	resp := domain.Response{
		ID:       req.ID,
		Command:  req.Command,
		Channel:  req.Channel,
		ClientID: req.ClientID,
	}

	if req.Type != domain.MsgExecuteCommand {
		l.logger.Warn("ignoring unexpected message type", "type", req.Type)
		resp.Type = domain.MsgCommandError
		resp.Error = "unsupported message type: " + req.Type
		resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
		return resp
	}

	result, err := l.disp.Dispatch(ctx, req.Command, req.Params)
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		resp.Type = domain.MsgCommandError
		resp.Error = err.Error()
		return resp
	}
	resp.Type = domain.MsgCommandResult
	resp.Result = result
	return resp
}
