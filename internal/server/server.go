// internal/server/server.go
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobmap/internal/common/config"
	"jobmap/internal/common/logger"
	"jobmap/internal/models"
)

// Searcher runs one search end to end. Implemented by pipeline.Pipeline.
type Searcher interface {
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.NormalizedJob, error)
}

// Server owns the HTTP surface: the search endpoint plus health and
// metrics.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger logger.Logger
}

func New(cfg config.ServerConfig, version string, searcher Searcher, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), cors(), requestLogger(log))

	s := &Server{
		engine: engine,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		},
		logger: log,
	}

	h := &searchHandler{searcher: searcher, logger: log}
	engine.POST("/api/jobs", h.Search)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"addr": s.http.Addr,
	})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
