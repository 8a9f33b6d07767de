package overlay

import (
	"testing"
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/internal/app/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() config.Overlay {
	return (&config.Manager{}).GetDefault().Overlay
}

func TestChat_TrimsToScrollback(t *testing.T) {
	settings := testSettings()
	settings.Scrollback = 3
	c := NewChat(settings)

	c.AddInfo("hello")
	c.AddMessage("a", "1")
	c.AddMessage("b", "2")
	c.AddMessage("c", "3")

	entries := c.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, ports.ChatEntry{Kind: ports.EntryMessage, From: "a", Text: "1", At: entries[0].At}, entries[0])
	assert.Equal(t, "c", entries[2].From)
}

func TestChat_SetScrollbackFloorsAndTrims(t *testing.T) {
	c := NewChat(testSettings())
	for i := 0; i < 10; i++ {
		c.AddInfo("line")
	}

	c.SetScrollback(4.9)
	assert.Equal(t, 4, c.Scrollback())
	assert.Len(t, c.Entries(), 4)

	c.SetScrollback(-1)
	assert.Equal(t, 0, c.Scrollback())
	assert.Empty(t, c.Entries())
}

func TestChat_Style(t *testing.T) {
	settings := testSettings()
	settings.XPosition = 0.25
	settings.ChatTextColor = "#ff0000"
	c := NewChat(settings)

	style := c.Style()
	assert.Equal(t, 0.25, style.XFactor)
	assert.Equal(t, "#ff0000", style.TextColor)
	assert.Equal(t, settings.ChatBackgroundColor, style.BackgroundColor)

	style.ChatFont = "Mono 10"
	c.SetStyle(style)
	assert.Equal(t, "Mono 10", c.Style().ChatFont)
}

func TestChat_EntriesIsCopy(t *testing.T) {
	c := NewChat(testSettings())
	c.AddInfo("one")

	entries := c.Entries()
	entries[0].Text = "changed"
	assert.Equal(t, "one", c.Entries()[0].Text)
}
