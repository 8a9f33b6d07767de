package twitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"twitchoverlay/internal/app/adapters/platform/twitch/irc"
	"twitchoverlay/internal/app/adapters/platform/twitch/ws"
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/pkg/logger"

	"github.com/gorilla/websocket"
)

// Twitch wires the chat session to its websocket transport and keeps the
// configured channel joined across reconnects.
type Twitch struct {
	log         logger.Logger
	session     *irc.Session
	reconnector *irc.Reconnector

	mu          sync.Mutex
	channel     string
	unsubscribe func()
}

func New(log logger.Logger, cfg *config.Config) (*Twitch, error) {
	return NewWithFactory(log, cfg, nil)
}

// NewWithFactory builds the facade with a custom transport factory; nil uses
// the websocket transport.
func NewWithFactory(log logger.Logger, cfg *config.Config, factory irc.TransportFactory) (*Twitch, error) {
	ircLog := logger.NewPrefixedLogger(log, "irc")

	if factory == nil {
		dialer, err := newDialer(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		factory = ws.NewFactory(logger.NewPrefixedLogger(log, "ws"), dialer)
	}

	t := &Twitch{
		log:     log,
		channel: cfg.Twitch.Channel,
		session: irc.NewSession(ircLog, factory, irc.Options{
			Server:   cfg.Twitch.Server,
			Username: cfg.Twitch.Username,
			OAuth:    cfg.Twitch.OAuth,
		}),
	}

	if cfg.Reconnect.Enabled {
		t.reconnector = irc.NewReconnector(ircLog, t.session, irc.ReconnectPolicy{
			Delay:       cfg.Reconnect.Delay,
			MaxAttempts: cfg.Reconnect.MaxAttempts,
			Per:         cfg.Reconnect.Per,
			Burst:       cfg.Reconnect.Burst,
		})
	}

	return t, nil
}

func newDialer(p *config.Proxy) (*websocket.Dialer, error) {
	if p == nil || p.Address == "" {
		return ws.NewDialer(nil), nil
	}

	socks, err := ws.NewSOCKS5(net.JoinHostPort(p.Address, strconv.Itoa(p.Port)))
	if err != nil {
		return nil, fmt.Errorf("proxy: %w", err)
	}
	return ws.NewDialer(socks), nil
}

func (t *Twitch) Session() *irc.Session {
	return t.session
}

// Retrying reports whether closed connections are re-established automatically.
func (t *Twitch) Retrying() bool {
	return t.reconnector != nil
}

// Start connects in the background. Every successful connect authenticates
// and joins the configured channel.
func (t *Twitch) Start(ctx context.Context) {
	t.mu.Lock()
	if t.unsubscribe == nil {
		t.unsubscribe = t.session.OnConnected(t.onConnected)
	}
	t.mu.Unlock()

	if t.reconnector != nil {
		t.reconnector.Start(ctx)
	}
	t.session.EstablishConnection(ctx)
}

func (t *Twitch) onConnected() {
	if err := t.session.Authenticate(); err != nil {
		t.log.Error("Failed to authenticate", err)
		return
	}

	channel := t.Channel()
	if channel == "" {
		t.log.Warn("No channel configured, staying in lobby")
		return
	}

	if err := t.session.SetChannel(channel); err != nil {
		t.log.Error("Failed to join channel", err, slog.String("channel", channel))
	}
}

func (t *Twitch) Channel() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.channel
}

// SetChannel remembers name for future connects and switches to it now when
// connected. An empty name parts the current channel.
func (t *Twitch) SetChannel(name string) error {
	t.mu.Lock()
	t.channel = name
	t.mu.Unlock()

	if t.session.State() != irc.StateConnected {
		return nil
	}

	if name == "" {
		current := t.session.Channel()
		if current == "" {
			return nil
		}
		return t.session.Part(current)
	}

	err := t.session.SetChannel(name)
	if errors.Is(err, irc.ErrNotConnected) {
		// dropped between the state check and the join; onConnected will rejoin
		return nil
	}
	return err
}

func (t *Twitch) Close() error {
	if t.reconnector != nil {
		t.reconnector.Stop()
	}

	t.mu.Lock()
	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return t.session.Close()
}
