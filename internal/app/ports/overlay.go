package ports

import (
	"time"
	"twitchoverlay/internal/app/infrastructure/config"
)

type IndicatorState string

const (
	IndicatorActive   IndicatorState = "active"
	IndicatorInactive IndicatorState = "inactive"
	IndicatorError    IndicatorState = "error"
)

type EntryKind string

const (
	EntryMessage EntryKind = "message"
	EntryInfo    EntryKind = "info"
)

type ChatEntry struct {
	Kind EntryKind `json:"kind"`
	From string    `json:"from,omitempty"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type ChatStyle struct {
	XFactor         float64 `json:"x_factor"`
	YFactor         float64 `json:"y_factor"`
	ChatWidth       float64 `json:"chat_width"`
	ChatFont        string  `json:"chat_font"`
	TextColor       string  `json:"text_color"`
	BackgroundColor string  `json:"background_color"`
}

type OverlaySnapshot struct {
	ID         string      `json:"id"`
	WindowID   string      `json:"window_id"`
	Title      string      `json:"title"`
	Scrollback int         `json:"scrollback"`
	Style      ChatStyle   `json:"style"`
	Entries    []ChatEntry `json:"entries,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type OverlayPort interface {
	WindowCreated(windowID, title string) (OverlaySnapshot, bool)
	WindowClosed(windowID string) bool
	Overlays() []OverlaySnapshot
	Overlay(id string) (OverlaySnapshot, bool)
	ApplySettings(settings config.Overlay, channel string) error
	Indicator() IndicatorState
	Toggle() IndicatorState
	UnredirectDisabled() bool
	Shutdown()
}
