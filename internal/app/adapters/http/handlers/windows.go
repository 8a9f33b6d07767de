package handlers

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
)

type windowRequest struct {
	ID    string `json:"id"`
	Title string `json:"title" binding:"required"`
}

func (h *Handlers) WindowCreatedHandler(c *gin.Context) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, ok := h.overlays.WindowCreated(req.ID, req.Title)
	if !ok {
		h.log.Debug("Window does not match", slog.String("title", req.Title))
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

func (h *Handlers) WindowClosedHandler(c *gin.Context) {
	if !h.overlays.WindowClosed(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "window not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) OverlaysHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.overlays.Overlays())
}

func (h *Handlers) OverlayHandler(c *gin.Context) {
	snapshot, ok := h.overlays.Overlay(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "overlay not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
