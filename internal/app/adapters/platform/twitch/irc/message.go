package irc

import (
	"sort"
	"strings"
)

// TagValue holds a tag's value. Keys written without '=' carry Flag == true
// and an empty Value.
type TagValue struct {
	Value string
	Flag  bool
}

type Tags map[string]TagValue

// Get returns the string value of key. Flag tags report ("", true).
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v.Value, ok
}

// Message is one parsed protocol line.
type Message struct {
	Raw     string
	Tags    Tags
	Prefix  string // empty when the line had no prefix
	Command string
	Params  []string
}

// String rebuilds a protocol line that parses back into an equal message.
// Tag keys are written in sorted order.
func (m *Message) String() string {
	var b strings.Builder

	if len(m.Tags) > 0 {
		keys := make([]string, 0, len(m.Tags))
		for k := range m.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('@')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(k)
			if v := m.Tags[k]; !v.Flag {
				b.WriteByte('=')
				b.WriteString(v.Value)
			}
		}
		b.WriteByte(' ')
	}

	if m.Prefix != "" {
		b.WriteByte(':')
		b.WriteString(m.Prefix)
		b.WriteByte(' ')
	}

	b.WriteString(m.Command)

	// a bare command is rejected by Parse, keep the separator
	if len(m.Params) == 0 {
		b.WriteByte(' ')
		return b.String()
	}

	for i, p := range m.Params {
		b.WriteByte(' ')
		if i == len(m.Params)-1 && (p == "" || p[0] == ':' || strings.IndexByte(p, ' ') != -1) {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}

	return b.String()
}

// Nick is the nickname part of the prefix (before '!').
func (m *Message) Nick() string {
	if i := strings.IndexByte(m.Prefix, '!'); i != -1 {
		return m.Prefix[:i]
	}
	return m.Prefix
}

// DisplayName prefers the display-name tag and falls back to the prefix nick.
func (m *Message) DisplayName() string {
	if v, ok := m.Tags.Get("display-name"); ok && v != "" {
		return v
	}
	return m.Nick()
}

// Channel is the first parameter without its leading '#', if it names a channel.
func (m *Message) Channel() string {
	if len(m.Params) == 0 || !strings.HasPrefix(m.Params[0], "#") {
		return ""
	}
	return m.Params[0][1:]
}

// Text is the trailing parameter of a message addressed to a target.
func (m *Message) Text() string {
	if len(m.Params) < 2 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}
