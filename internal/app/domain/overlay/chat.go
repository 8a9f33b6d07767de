package overlay

import (
	"math"
	"sync"
	"time"
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/internal/app/ports"
)

// Chat is the scrollback buffer of one overlay. Oldest entries are dropped
// once more than scrollback are held.
type Chat struct {
	mu         sync.Mutex
	scrollback int
	style      ports.ChatStyle
	entries    []ports.ChatEntry
	now        func() time.Time
}

func NewChat(settings config.Overlay) *Chat {
	c := &Chat{now: time.Now}
	c.SetScrollback(settings.Scrollback)
	c.SetStyle(styleFrom(settings))
	return c
}

func styleFrom(settings config.Overlay) ports.ChatStyle {
	return ports.ChatStyle{
		XFactor:         settings.XPosition,
		YFactor:         settings.YPosition,
		ChatWidth:       settings.ChatWidth,
		ChatFont:        settings.ChatFont,
		TextColor:       settings.ChatTextColor,
		BackgroundColor: settings.ChatBackgroundColor,
	}
}

func (c *Chat) AddMessage(from, text string) {
	c.add(ports.ChatEntry{Kind: ports.EntryMessage, From: from, Text: text})
}

func (c *Chat) AddInfo(text string) {
	c.add(ports.ChatEntry{Kind: ports.EntryInfo, Text: text})
}

func (c *Chat) add(e ports.ChatEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.At = c.now()
	c.entries = append(c.entries, e)
	c.trimLocked()
}

func (c *Chat) trimLocked() {
	if over := len(c.entries) - c.scrollback; over > 0 {
		c.entries = append(c.entries[:0:0], c.entries[over:]...)
	}
}

// SetScrollback floors value and trims immediately.
func (c *Chat) SetScrollback(value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scrollback = max(int(math.Floor(value)), 0)
	c.trimLocked()
}

func (c *Chat) Scrollback() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollback
}

func (c *Chat) SetStyle(style ports.ChatStyle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.style = style
}

func (c *Chat) Style() ports.ChatStyle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

func (c *Chat) Entries() []ports.ChatEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ports.ChatEntry(nil), c.entries...)
}
