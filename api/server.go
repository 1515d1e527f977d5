package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/icook/tiny-flipper/engine"
)

type APIConfig struct {
	APIEndpoint string
	Logger      *slog.Logger
	// Gatherer backs GET /metrics. Defaults to the prometheus default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the HTTP handler for eng.
func NewRouter(eng *engine.Engine, cfg APIConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(cfg.Logger))
	registerRoutes(r, &handlers{eng: eng, log: cfg.Logger}, cfg.Gatherer)
	return r
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, eng *engine.Engine, cfg APIConfig) error {
	srv := &http.Server{
		Addr:              cfg.APIEndpoint,
		Handler:           NewRouter(eng, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.InfoContext(c.Request.Context(), "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
