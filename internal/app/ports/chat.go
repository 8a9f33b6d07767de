package ports

import "twitchoverlay/internal/app/adapters/platform/twitch/irc"

// SessionPort is the event side of a chat session. Every On* call returns a
// func that removes the handler.
type SessionPort interface {
	OnConnected(handler func()) func()
	OnMessage(handler func(msg *irc.Message)) func()
	OnError(handler func(err error)) func()
	OnClose(handler func()) func()
	OnJoin(handler func(channel string)) func()
	OnPart(handler func(channel string)) func()
	State() irc.State
	Channel() string
	Authenticated() bool
}

type ChatPort interface {
	Channel() string
	SetChannel(name string) error
	Retrying() bool
	Close() error
}
