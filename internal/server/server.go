// Package server exposes a session over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/dshills/gpacalc/internal/session"
)

// Server answers report queries from the current snapshot of a session.
type Server struct {
	sess    *session.Session
	logger  log.Logger
	version string
}

// New returns a server over sess.
func New(sess *session.Session, logger log.Logger, version string) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{sess: sess, logger: logger, version: version}
}

// HTTPServer wraps the routes in an http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes builds the gin router.
func (s *Server) RegisterRoutes() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/snapshot", s.getSnapshot)
		v1.GET("/coverage", s.getCoverage)
		v1.GET("/report", s.getReport)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/reload", s.reload)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level.Debug(s.logger).Log(
			"msg", "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
