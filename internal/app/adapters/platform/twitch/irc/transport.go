package irc

import "context"

const (
	// DefaultServer is Twitch's IRC-over-WebSocket endpoint.
	DefaultServer = "wss://irc-ws.chat.twitch.tv:443"

	CloseNormal = 1000
)

// Transport is a duplex text connection. Handlers are registered before Open
// and are called from the transport's own goroutine once Open has succeeded.
type Transport interface {
	Open(ctx context.Context, endpoint string) error
	SendText(line string) error
	OnTextMessage(handler func(text string))
	OnError(handler func(err error))
	OnClosed(handler func())
	Close(code int) error
}

// TransportFactory returns a fresh, unopened transport for each connection attempt.
type TransportFactory func() Transport
