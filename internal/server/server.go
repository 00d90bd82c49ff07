// Package server serves the dashboard: the heatmap page plus a small JSON
// API over the configured store.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/chart"
	"github.com/pwc-dv/dvmap/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server is the dashboard HTTP server.
type Server struct {
	addr   string
	router *gin.Engine
	store  store.Store
	chart  chart.Options
	logger *zap.Logger
}

// Config describes the server's dependencies.
type Config struct {
	Addr   string
	Store  store.Store
	Chart  chart.Options
	Logger *zap.Logger
}

// New builds the server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("dashboard server requires a store")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger))

	s := &Server{
		addr:   cfg.Addr,
		router: router,
		store:  cfg.Store,
		chart:  cfg.Chart,
		logger: cfg.Logger,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/", s.handleChart)

	api := router.Group("/api")
	api.GET("/grid", s.handleGrid)
	api.GET("/stages", s.handleStages)
	api.GET("/providers/:name", s.handleDetail)
	api.PUT("/providers/:name/intercepts", s.handleAssign)

	return s, nil
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled or the listener fails. Cancellation
// triggers a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("dashboard listening", zap.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}
