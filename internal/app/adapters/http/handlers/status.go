package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
	"net/http"
	"runtime"
	"twitchoverlay/internal/app/adapters/platform/twitch/irc"
	"twitchoverlay/internal/app/ports"
)

type statusResponse struct {
	State              ports.IndicatorState `json:"state"`
	Connection         string               `json:"connection"`
	Connected          bool                 `json:"connected"`
	Authenticated      bool                 `json:"authenticated"`
	Channel            string               `json:"channel"`
	Overlays           int                  `json:"overlays"`
	UnredirectDisabled bool                 `json:"unredirect_disabled"`
	CPU                float64              `json:"cpu_percent"`
	MemoryMB           float64              `json:"memory_mb"`
}

func (h *Handlers) StatusHandler(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var cpuPercent float64
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		cpuPercent = percent[0]
	}

	state := h.session.State()
	c.JSON(http.StatusOK, statusResponse{
		State:              h.overlays.Indicator(),
		Connection:         state.String(),
		Connected:          state == irc.StateConnected,
		Authenticated:      h.session.Authenticated(),
		Channel:            h.session.Channel(),
		Overlays:           len(h.overlays.Overlays()),
		UnredirectDisabled: h.overlays.UnredirectDisabled(),
		CPU:                cpuPercent,
		MemoryMB:           float64(m.Alloc) / 1024 / 1024,
	})
}

func (h *Handlers) ToggleHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.overlays.Toggle()})
}
