package handlers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"twitchoverlay/internal/app/infrastructure/config"
)

type settingsRequest struct {
	Channel             *string  `json:"channel"`
	WindowRegex         *string  `json:"window_regex"`
	Scrollback          *float64 `json:"scrollback"`
	XPosition           *float64 `json:"x_position"`
	YPosition           *float64 `json:"y_position"`
	ChatWidth           *float64 `json:"chat_width"`
	ChatFont            *string  `json:"chat_font"`
	ChatTextColor       *string  `json:"chat_text_color"`
	ChatBackgroundColor *string  `json:"chat_background_color"`
	DisableUnredirect   *bool    `json:"disable_unredirect"`
}

type settingsResponse struct {
	Channel string         `json:"channel"`
	Overlay config.Overlay `json:"overlay"`
}

func (r *settingsRequest) apply(cfg *config.Config) {
	if r.Channel != nil {
		cfg.Twitch.Channel = *r.Channel
	}

	o := &cfg.Overlay
	if r.WindowRegex != nil {
		o.WindowRegex = *r.WindowRegex
	}
	if r.Scrollback != nil {
		o.Scrollback = *r.Scrollback
	}
	if r.XPosition != nil {
		o.XPosition = *r.XPosition
	}
	if r.YPosition != nil {
		o.YPosition = *r.YPosition
	}
	if r.ChatWidth != nil {
		o.ChatWidth = *r.ChatWidth
	}
	if r.ChatFont != nil {
		o.ChatFont = *r.ChatFont
	}
	if r.ChatTextColor != nil {
		o.ChatTextColor = *r.ChatTextColor
	}
	if r.ChatBackgroundColor != nil {
		o.ChatBackgroundColor = *r.ChatBackgroundColor
	}
	if r.DisableUnredirect != nil {
		o.DisableUnredirect = *r.DisableUnredirect
	}
}

func (h *Handlers) GetSettingsHandler(c *gin.Context) {
	cfg := h.manager.Get()
	c.JSON(http.StatusOK, settingsResponse{Channel: cfg.Twitch.Channel, Overlay: cfg.Overlay})
}

// UpdateSettingsHandler saves the change right away and applies it to the
// overlays once changes stop arriving.
func (h *Handlers) UpdateSettingsHandler(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.manager.Update(req.apply); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.debouncer.Trigger(h.applySettings)

	cfg := h.manager.Get()
	c.JSON(http.StatusAccepted, settingsResponse{Channel: cfg.Twitch.Channel, Overlay: cfg.Overlay})
}

func (h *Handlers) applySettings() {
	cfg := h.manager.Get()
	if err := h.overlays.ApplySettings(cfg.Overlay, cfg.Twitch.Channel); err != nil {
		h.log.Error("Failed to apply settings", err)
		return
	}
	h.log.Info("Settings applied")
}
