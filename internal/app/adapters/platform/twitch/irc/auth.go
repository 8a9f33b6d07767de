package irc

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
)

const capReq = "CAP REQ :twitch.tv/tags twitch.tv/commands twitch.tv/membership"

// anonymousNick returns justinfan followed by 4-5 digits. Twitch accepts these
// logins without a password.
func anonymousNick() string {
	return fmt.Sprintf("justinfan%d", rand.IntN(80000)+1000)
}

// Authenticate requests the Twitch capabilities and logs in. It is a no-op
// when the connection is already authenticated.
func (s *Session) Authenticate() error {
	s.mu.Lock()
	t := s.transport
	if t == nil {
		s.mu.Unlock()
		return ErrNotConnected
	}
	if s.authenticated {
		s.mu.Unlock()
		return nil
	}
	s.authenticated = true
	s.mu.Unlock()

	lines, nick := s.loginLines()
	for _, line := range lines {
		if err := t.SendText(line); err != nil {
			s.mu.Lock()
			if s.transport == t {
				s.authenticated = false
			}
			s.mu.Unlock()
			return &TransportError{Op: "send", Err: err}
		}
	}

	s.log.Info("Authenticated on chat", slog.String("nick", nick))
	return nil
}

func (s *Session) loginLines() ([]string, string) {
	if s.opts.Username != "" && s.opts.OAuth != "" {
		token := strings.TrimPrefix(s.opts.OAuth, "oauth:")
		return []string{
			capReq,
			"PASS oauth:" + token,
			"NICK " + s.opts.Username,
		}, s.opts.Username
	}

	nick := s.opts.Nick()
	return []string{capReq, "NICK " + nick}, nick
}
