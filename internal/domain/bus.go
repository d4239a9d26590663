package domain

import "context"

// CommandBus routes requests from channels to the dispatcher loop and
// responses back to the originating channel.
type CommandBus interface {
	Publish(req Request)
	Subscribe() <-chan Request
	SendResponse(resp Response)
	OnResponse(channelName string, handler func(Response))
	Close()
}

// Channel is a transport that delivers controller requests onto the bus.
type Channel interface {
	Name() string
	Start(ctx context.Context, bus CommandBus) error
	Stop() error
}
