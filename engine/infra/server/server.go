package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brainus-ai/brainus-go/engine/cache"
	"github.com/brainus-ai/brainus-go/engine/dispatch"
	"github.com/brainus-ai/brainus-go/pkg/config"
	"github.com/brainus-ai/brainus-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP proxy in front of the BrainUs API: request validation,
// answer caching, retry orchestration, and rate limiting.
type Server struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	policy     dispatch.RetryPolicy
	cache      *cache.AnswerCache
	engine     *gin.Engine
}

// New assembles the proxy from its collaborators. The cache may be nil to
// disable caching.
func New(cfg *config.Config, dispatcher *dispatch.Dispatcher, answerCache *cache.AnswerCache) *Server {
	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		policy:     dispatch.PolicyFromConfig(cfg.Retry),
		cache:      answerCache,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	if s.cfg.Runtime.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware())
	if s.cfg.Server.CORSEnabled {
		router.Use(corsMiddleware())
	}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v0")
	if !s.cfg.RateLimit.Disabled && s.cfg.RateLimit.Limit > 0 {
		api.Use(rateLimitMiddleware(s.cfg.RateLimit))
	}
	api.POST("/query", s.handleQuery)

	return router
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("proxy server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down proxy server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return <-errCh
	}
}
