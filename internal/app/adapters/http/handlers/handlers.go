package handlers

import (
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/internal/app/ports"
	"twitchoverlay/pkg/logger"
)

type Handlers struct {
	log       logger.Logger
	manager   *config.Manager
	overlays  ports.OverlayPort
	session   ports.SessionPort
	debouncer ports.DebouncerPort
}

func New(log logger.Logger, manager *config.Manager, overlays ports.OverlayPort, session ports.SessionPort, debouncer ports.DebouncerPort) *Handlers {
	return &Handlers{
		log:       log,
		manager:   manager,
		overlays:  overlays,
		session:   session,
		debouncer: debouncer,
	}
}
