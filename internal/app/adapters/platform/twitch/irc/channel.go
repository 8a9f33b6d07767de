package irc

import (
	"log/slog"
	"strings"
	"sync"
)

func normalizeChannel(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
}

// SetChannel makes name the single joined channel.
func (s *Session) SetChannel(name string) error {
	_, err := s.Join(name)
	return err
}

// Join switches the session to channel name, parting the previous one first.
// Joining the current channel sends nothing. The returned leave func parts the
// channel once; later calls, or calls after the session moved on, do nothing.
func (s *Session) Join(name string) (leave func() error, err error) {
	name = normalizeChannel(name)
	if name == "" {
		return nil, ErrEmptyChannel
	}

	s.chanMu.Lock()
	defer s.chanMu.Unlock()

	s.mu.Lock()
	t := s.transport
	old := s.channel
	s.mu.Unlock()

	if t == nil {
		return nil, ErrNotConnected
	}

	if old == name {
		s.log.Warn("Channel already joined", slog.String("channel", name))
		return s.leaveFunc(name), nil
	}

	if old != "" {
		if err := t.SendText("PART #" + old); err != nil {
			return nil, &TransportError{Op: "send", Err: err}
		}
		if !s.setChannelIfOwned(t, "") {
			return nil, ErrNotConnected
		}
		s.log.Info("Left channel", slog.String("channel", old))
		s.parts.emit(old)
	}

	if err := t.SendText("JOIN #" + name); err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	if !s.setChannelIfOwned(t, name) {
		return nil, ErrNotConnected
	}

	s.log.Info("Joined channel", slog.String("channel", name))
	s.joins.emit(name)

	return s.leaveFunc(name), nil
}

// Part leaves name if it is the current channel.
func (s *Session) Part(name string) error {
	name = normalizeChannel(name)

	s.chanMu.Lock()
	defer s.chanMu.Unlock()

	s.mu.Lock()
	t := s.transport
	current := s.channel
	s.mu.Unlock()

	if t == nil {
		return ErrNotConnected
	}
	if name == "" || current != name {
		s.log.Debug("Part of a channel that is not joined", slog.String("channel", name), slog.String("current", current))
		return nil
	}

	if err := t.SendText("PART #" + name); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	if !s.setChannelIfOwned(t, "") {
		return ErrNotConnected
	}

	s.log.Info("Left channel", slog.String("channel", name))
	s.parts.emit(name)
	return nil
}

func (s *Session) setChannelIfOwned(t Transport, channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transport != t {
		return false
	}
	s.channel = channel
	return true
}

func (s *Session) leaveFunc(name string) func() error {
	var once sync.Once
	var err error
	return func() error {
		once.Do(func() {
			if s.Channel() != name {
				return
			}
			err = s.Part(name)
		})
		return err
	}
}
