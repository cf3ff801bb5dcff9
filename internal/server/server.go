// Package server exposes a shared name generator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/CTAG07/Nomenclator/internal/config"
	nlog "github.com/CTAG07/Nomenclator/internal/logger"
	"github.com/CTAG07/Nomenclator/pkg/corpus"
	"github.com/CTAG07/Nomenclator/pkg/markov"
	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server holds the dependencies for the API handlers.
type Server struct {
	chain  *markov.SyncChain
	index  *corpus.Index
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
}

// New creates a Server around chain. index may be nil, in which case
// novel-only generation is unavailable and trained entries are not recorded.
func New(chain *markov.SyncChain, index *corpus.Index, cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = nlog.Discard()
	}
	s := &Server{
		chain:  chain,
		index:  index,
		config: cfg,
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestID())
	s.registerRoutes(router)
	s.router = router
	return s
}

// registerRoutes sets up the routing for all /api endpoints.
func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/train", s.handleTrain)
		api.GET("/generate", s.handleGenerate)
		api.GET("/names", s.handleNames)
		api.GET("/stats", s.handleStats)
		api.GET("/healthz", s.handleHealth)
	}
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Stopping API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped.")
	return nil
}
