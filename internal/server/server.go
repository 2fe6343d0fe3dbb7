// Package server exposes the health verdict over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0x234/clusterhealthz/internal/health"
	"github.com/0x234/clusterhealthz/internal/metrics"
	"github.com/0x234/clusterhealthz/internal/promsource"
	"github.com/0x234/clusterhealthz/internal/watchlist"
)

// Server wires the HTTP routes. The health endpoint runs one fresh
// evaluation per request: freshness matters more than backend load, and
// request volume is bounded by the load balancer's check interval.
type Server struct {
	evaluator *health.Evaluator
	reloader  *watchlist.Reloader
	metrics   *metrics.Metrics
	logger    *zap.Logger
	engine    *gin.Engine
}

// New creates the Server and registers its routes.
func New(evaluator *health.Evaluator, reloader *watchlist.Reloader, m *metrics.Metrics, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		evaluator: evaluator,
		reloader:  reloader,
		metrics:   m,
		logger:    logger,
	}

	engine := gin.New()
	engine.Use(s.requestLogger(), gin.Recovery())

	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/", s.handleRoot)
	engine.POST("/-/reload", s.handleReload)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	s.engine = engine
	return s
}

// Handler returns the HTTP handler for use with an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// handleHealthz maps the verdict to a status code. Load balancers only
// distinguish 2xx from non-2xx, so Unhealthy and BackendUnreachable both
// return 503; the JSON body carries the distinction for humans.
func (s *Server) handleHealthz(c *gin.Context) {
	start := time.Now()
	result := s.evaluator.Evaluate(c.Request.Context())
	s.metrics.ObserveCheck(string(result.Verdict), time.Since(start))

	switch result.Verdict {
	case health.Healthy:
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	case health.Unhealthy:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"alerts": result.Matched,
		})
	case health.BackendUnreachable:
		s.metrics.ObserveBackendError(string(promsource.Kind(result.Err)))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"reason": "backend unreachable",
		})
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "You're probably looking for /healthz\n")
}

// handleReload triggers an asynchronous watch-list reload. The response is
// 202: the reload happens out of band and a failure keeps the previous
// snapshot active.
func (s *Server) handleReload(c *gin.Context) {
	s.reloader.Trigger("http")
	c.JSON(http.StatusAccepted, gin.H{"status": "reload triggered"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
