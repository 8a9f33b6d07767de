package overlay

import (
	"errors"
	"github.com/dlclark/regexp2"
	"time"
	"twitchoverlay/internal/app/infrastructure/config"
)

var ErrInvalidRegex = errors.New("invalid window regex")

const matchTimeout = 100 * time.Millisecond

// Matcher decides which windows get an overlay by testing their titles
// against an ECMAScript regular expression.
type Matcher struct {
	pattern string
	re      *regexp2.Regexp
}

func NewMatcher(pattern string) (*Matcher, error) {
	re, err := config.CompileWindowRegex(pattern)
	if err != nil {
		return nil, errors.Join(ErrInvalidRegex, err)
	}
	re.MatchTimeout = matchTimeout

	return &Matcher{pattern: pattern, re: re}, nil
}

func (m *Matcher) Pattern() string {
	return m.pattern
}

// Matches reports whether title matches anywhere. A match that times out
// counts as no match.
func (m *Matcher) Matches(title string) bool {
	ok, err := m.re.MatchString(title)
	return err == nil && ok
}
