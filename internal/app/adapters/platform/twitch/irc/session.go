package irc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"twitchoverlay/internal/app/adapters/metrics"
	"twitchoverlay/pkg/logger"
)

const pong = "PONG :tmi.twitch.tv"

type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

type Options struct {
	Server string

	// Username and OAuth switch Authenticate from the anonymous justinfan
	// login to PASS/NICK. Both must be set.
	Username string
	OAuth    string

	// Nick generates the anonymous nickname; defaults to justinfan<1000-80999>.
	Nick func() string
}

// Session owns one transport at a time and mediates authentication, channel
// membership and keep-alive. Events from a transport the session no longer
// owns are ignored.
type Session struct {
	log          logger.Logger
	newTransport TransportFactory
	opts         Options

	mu            sync.Mutex
	state         State
	transport     Transport
	pending       Transport
	cancel        context.CancelFunc
	channel       string
	authenticated bool

	chanMu sync.Mutex

	connected listeners[struct{}]
	messages  listeners[*Message]
	errs      listeners[error]
	parseErrs listeners[error]
	closes    listeners[struct{}]
	joins     listeners[string]
	parts     listeners[string]
}

func NewSession(log logger.Logger, newTransport TransportFactory, opts Options) *Session {
	if opts.Server == "" {
		opts.Server = DefaultServer
	}
	if opts.Nick == nil {
		opts.Nick = anonymousNick
	}

	return &Session{
		log:          log,
		newTransport: newTransport,
		opts:         opts,
	}
}

// EstablishConnection opens a new transport in the background. The outcome is
// reported through OnConnected or OnError followed by OnClose. Calling it while
// a connection is open or in progress does nothing.
func (s *Session) EstablishConnection(ctx context.Context) {
	s.mu.Lock()
	if s.state == StateConnecting || s.state == StateConnected {
		state := s.state
		s.mu.Unlock()
		s.log.Warn("Connection already established or in progress", slog.String("state", state.String()))
		return
	}

	t := s.newTransport()
	ctx, cancel := context.WithCancel(ctx)
	s.pending = t
	s.cancel = cancel
	s.state = StateConnecting
	s.mu.Unlock()

	metrics.ConnectionState.Set(metrics.StateConnecting)

	t.OnTextMessage(func(text string) { s.handleText(t, text) })
	t.OnError(func(err error) { s.handleTransportError(t, err) })
	t.OnClosed(func() { s.handleTransportClosed(t) })

	s.log.Info("Connecting to chat", slog.String("server", s.opts.Server))
	go s.open(ctx, cancel, t)
}

func (s *Session) open(ctx context.Context, cancel context.CancelFunc, t Transport) {
	defer cancel()

	err := t.Open(ctx, s.opts.Server)

	s.mu.Lock()
	if s.pending != t {
		// closed while connecting
		s.mu.Unlock()
		if err == nil {
			_ = t.Close(CloseNormal)
		}
		return
	}
	s.pending = nil

	if err != nil {
		s.state = StateClosed
		s.cancel = nil
		s.mu.Unlock()

		metrics.ConnectAttempts.WithLabelValues("failure").Inc()
		metrics.ConnectionState.Set(metrics.StateClosed)
		s.log.Error("Failed to connect to chat", err, slog.String("server", s.opts.Server))

		s.errs.emit(&TransportError{Op: "open", Err: err})
		s.closes.emit(struct{}{})
		return
	}

	s.transport = t
	s.state = StateConnected
	s.mu.Unlock()

	metrics.ConnectAttempts.WithLabelValues("success").Inc()
	metrics.ConnectionState.Set(metrics.StateConnected)
	s.log.Info("Connected to chat")

	s.connected.emit(struct{}{})
}

func (s *Session) owns(t Transport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t != nil && (s.transport == t || s.pending == t)
}

func (s *Session) handleText(t Transport, text string) {
	start := time.Now()
	defer func() {
		metrics.MessageHandlingTime.Observe(float64(time.Since(start).Nanoseconds()) / 1e6)
	}()

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// a handler may have closed the session mid-batch
		if !s.owns(t) {
			return
		}

		msg, err := Parse(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				metrics.ParseErrors.WithLabelValues(perr.Kind.String()).Inc()
			}
			s.log.Warn("Failed to parse chat line", slog.String("error", err.Error()), slog.String("line", line))
			s.parseErrs.emit(err)
			continue
		}

		metrics.MessagesReceived.WithLabelValues(msg.Command).Inc()
		s.log.Trace("Chat line", slog.String("command", msg.Command), slog.String("line", line))

		// keep-alive
		if msg.Command == "PING" {
			if err := t.SendText(pong); err != nil {
				s.handleTransportError(t, err)
				return
			}
			metrics.PongsSent.Inc()
		}

		s.messages.emit(msg)
	}
}

func (s *Session) handleTransportError(t Transport, err error) {
	if !s.detach(t) {
		return
	}

	s.log.Error("Chat transport error", err)
	s.errs.emit(&TransportError{Op: "read", Err: err})
	s.closes.emit(struct{}{})
}

func (s *Session) handleTransportClosed(t Transport) {
	if !s.detach(t) {
		return
	}

	s.log.Info("Chat transport closed by peer")
	s.closes.emit(struct{}{})
}

// detach drops t if it is still the owned transport and resets the per-connection state.
func (s *Session) detach(t Transport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == nil || (s.transport != t && s.pending != t) {
		return false
	}
	s.resetLocked()
	return true
}

func (s *Session) resetLocked() {
	s.transport = nil
	s.pending = nil
	s.cancel = nil
	s.channel = ""
	s.authenticated = false
	s.state = StateClosed

	metrics.ConnectionState.Set(metrics.StateClosed)
}

// Close tears down the current connection. Closing an idle or already closed
// session is a no-op; otherwise OnClose handlers run exactly once.
func (s *Session) Close() error {
	s.mu.Lock()
	open := s.transport
	connecting := s.pending != nil
	cancel := s.cancel
	if open == nil && !connecting {
		s.mu.Unlock()
		return nil
	}
	s.resetLocked()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	var err error
	if open != nil {
		if cerr := open.Close(CloseNormal); cerr != nil {
			err = &TransportError{Op: "close", Err: cerr}
		}
	}

	s.log.Info("Chat session closed")
	s.closes.emit(struct{}{})

	return err
}

// Send forwards a raw protocol line to the transport.
func (s *Session) Send(text string) error {
	s.mu.Lock()
	t := s.transport
	s.mu.Unlock()

	if t == nil {
		return ErrNotConnected
	}

	if err := t.SendText(text); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Channel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) OnConnected(handler func()) (unsubscribe func()) {
	return s.connected.add(func(struct{}) { handler() })
}

func (s *Session) OnMessage(handler func(msg *Message)) (unsubscribe func()) {
	return s.messages.add(handler)
}

// OnError reports transport failures. Each is followed by OnClose.
func (s *Session) OnError(handler func(err error)) (unsubscribe func()) {
	return s.errs.add(handler)
}

// OnParseError reports lines the parser rejected. The session keeps going.
func (s *Session) OnParseError(handler func(err error)) (unsubscribe func()) {
	return s.parseErrs.add(handler)
}

func (s *Session) OnClose(handler func()) (unsubscribe func()) {
	return s.closes.add(func(struct{}) { handler() })
}

func (s *Session) OnJoin(handler func(channel string)) (unsubscribe func()) {
	return s.joins.add(handler)
}

func (s *Session) OnPart(handler func(channel string)) (unsubscribe func()) {
	return s.parts.add(handler)
}
