package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gomlready/app"
	"gomlready/internal"
	"gomlready/internal/errors"
)

// DefaultMaxUploadBytes applies when Options leaves MaxUploadBytes unset.
const DefaultMaxUploadBytes = 100 << 20

// Options configures the HTTP server.
type Options struct {
	MaxUploadBytes int64
}

// Server serves the analysis API.
type Server struct {
	router    *gin.Engine
	service   *app.AnalysisService
	logger    *internal.Logger
	maxUpload int64
	started   time.Time
}

// NewServer creates a gin engine with the API routes registered.
func NewServer(service *app.AnalysisService, opts Options, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{
		router:    gin.New(),
		service:   service,
		logger:    logger.With("API"),
		maxUpload: opts.MaxUploadBytes,
		started:   time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.router.MaxMultipartMemory = s.maxUpload
}

func (s *Server) setupRoutes() {
	routes := s.router.Group("/api")
	{
		routes.GET("/health", s.handleHealth)
		routes.POST("/analyze", s.limitBody, s.handleAnalyzeUpload)
		routes.POST("/analyze/json", s.limitBody, s.handleAnalyzeJSON)
		routes.GET("/analyses", s.handleListAnalyses)
		routes.GET("/analyses/:id", s.handleGetAnalysis)
		routes.GET("/analyses/:id/report", s.handleReport)
	}
	s.router.NoRoute(func(c *gin.Context) {
		s.respondError(c, errors.NotFound("route "+c.Request.URL.Path))
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// limitBody rejects declared oversize bodies up front and caps the rest.
func (s *Server) limitBody(c *gin.Context) {
	if c.Request.ContentLength > s.maxUpload {
		s.respondTooLarge(c)
		c.Abort()
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	c.Next()
}
