package app

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"os"
	"os/signal"
	"syscall"
	router "twitchoverlay/internal/app/adapters/http"
	"twitchoverlay/internal/app/adapters/metrics"
	"twitchoverlay/internal/app/adapters/platform/twitch"
	"twitchoverlay/internal/app/domain/overlay"
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/internal/app/infrastructure/timers"
	"twitchoverlay/pkg/logger"
)

const configPath = "config.json"

func New() error {
	manager, err := config.New(configPath)
	if err != nil {
		return err
	}
	cfg := manager.Get()

	log := logger.New(cfg.App.LogFile)
	log.SetLogLevel(cfg.App.LogLevel)
	gin.SetMode(cfg.App.GinMode)

	prometheus.MustRegister(metrics.MessageHandlingTime)
	metrics.ConnectionState.Set(metrics.StateIdle)

	t, err := twitch.New(log, cfg)
	if err != nil {
		log.Error("Error creating chat session", err)
		return err
	}

	overlays, err := overlay.NewManager(logger.NewPrefixedLogger(log, "overlay"), t.Session(), t, cfg.Overlay)
	if err != nil {
		log.Error("Error creating overlay manager", err)
		return err
	}

	debouncer := timers.NewDebouncer(cfg.App.SettingsDebounce)
	r := router.NewRouter(logger.NewPrefixedLogger(log, "http"), manager, overlays, t.Session(), debouncer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t.Start(ctx)
	log.Info("Twitch overlay started")

	runErr := r.Run(ctx)

	debouncer.Stop()
	overlays.Shutdown()
	log.Info("Twitch overlay stopped")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("HTTP server failed", runErr)
		return runErr
	}
	return nil
}
