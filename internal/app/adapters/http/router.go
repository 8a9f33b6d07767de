package http

import (
	"context"
	"errors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
	"time"
	"twitchoverlay/internal/app/adapters/http/handlers"
	"twitchoverlay/internal/app/adapters/http/middlewares"
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/internal/app/ports"
	"twitchoverlay/pkg/logger"
)

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, overlays ports.OverlayPort, session ports.SessionPort, debouncer ports.DebouncerPort) *Router {
	r := &Router{
		router:      gin.Default(),
		handlers:    handlers.New(log, manager, overlays, session, debouncer),
		middlewares: middlewares.New(),
		log:         log,
		manager:     manager,
	}
	cfg := manager.Get()

	// without a token the admin endpoints are reachable from loopback only
	admin := r.middlewares.LocalOnly()
	if cfg.App.AuthToken != "" {
		admin = gin.BasicAuth(gin.Accounts{
			"admin": cfg.App.AuthToken,
		})
	}

	pprofGroup := r.router.Group("/", admin)
	pprof.Register(pprofGroup)

	r.router.GET("/metrics", admin, gin.WrapH(promhttp.Handler()))

	api := r.router.Group("/")
	if cfg.App.AuthToken != "" {
		api.Use(r.middlewares.Auth(cfg.App.AuthToken))
	}

	api.GET("/status", r.handlers.StatusHandler)
	api.POST("/toggle", r.handlers.ToggleHandler)
	api.POST("/windows", r.handlers.WindowCreatedHandler)
	api.DELETE("/windows/:id", r.handlers.WindowClosedHandler)
	api.GET("/overlays", r.handlers.OverlaysHandler)
	api.GET("/overlays/:id", r.handlers.OverlayHandler)
	api.GET("/settings", r.handlers.GetSettingsHandler)
	api.PUT("/settings", r.handlers.UpdateSettingsHandler)

	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (r *Router) Run(ctx context.Context) error {
	addr := r.manager.Get().App.ListenAddr
	srv := r.newServer(addr, r.router)

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("HTTP server started", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	r.log.Info("HTTP server stopped")
	return nil
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
