// Package bus is the in-process conduit between command channels and the
// dispatch loop: requests flow in on a buffered Go channel, responses are
// routed back to the originating channel by name.
package bus

import (
	"log/slog"
	"sync"
	"time"

	"drawbridge/internal/domain"
)

const publishTimeout = 10 * time.Second

// InMemoryBus is a Go-channel based command bus.
type InMemoryBus struct {
	inbound  chan domain.Request
	handlers map[string]func(domain.Response)
	mu       sync.RWMutex
	closed   bool
	logger   *slog.Logger
}

// New creates an InMemoryBus with the given buffer size.
func New(bufferSize int, logger *slog.Logger) *InMemoryBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &InMemoryBus{
		inbound:  make(chan domain.Request, bufferSize),
		handlers: make(map[string]func(domain.Response)),
		logger:   logger,
	}
}

// Publish queues a request for the dispatch loop. Blocks up to 10 seconds
// when the bus is full instead of dropping.
func (b *InMemoryBus) Publish(req domain.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("attempted to publish to closed bus")
		return
	}

	select {
	case b.inbound <- req:
	default:
		b.logger.Warn("inbound bus full, waiting...", "command", req.Command, "channel", req.Channel)
		timer := time.NewTimer(publishTimeout)
		defer timer.Stop()
		select {
		case b.inbound <- req:
			b.logger.Info("request delivered after wait", "command", req.Command)
		case <-timer.C:
			b.logger.Error("request dropped: bus full for 10s",
				"command", req.Command,
				"channel", req.Channel,
			)
		}
	}
}

func (b *InMemoryBus) Subscribe() <-chan domain.Request {
	return b.inbound
}

func (b *InMemoryBus) SendResponse(resp domain.Response) {
	b.mu.RLock()
	handler, ok := b.handlers[resp.Channel]
	b.mu.RUnlock()

	if !ok {
		b.logger.Warn("no handler registered for channel",
			"channel", resp.Channel,
		)
		return
	}

	handler(resp)
}

func (b *InMemoryBus) OnResponse(channelName string, handler func(domain.Response)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[channelName] = handler
}

func (b *InMemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.inbound)
	}
}

var _ domain.CommandBus = (*InMemoryBus)(nil)
