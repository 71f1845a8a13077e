// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter: it translates requests into service calls and maps
// domain errors onto status codes. Authentication is an outer concern; the
// adapter only carries the caller's identity and role headers through.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmabena/claimflow/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config        ServerConfig
	httpServer    *http.Server
	router        *gin.Engine
	claimService  service.ClaimService
	verification  service.VerificationService
	notifications service.NotificationService
	lecturers     service.LecturerService
	logger        Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	claimService service.ClaimService,
	verification service.VerificationService,
	notifications service.NotificationService,
	lecturers service.LecturerService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:        config,
		router:        router,
		claimService:  claimService,
		verification:  verification,
		notifications: notifications,
		lecturers:     lecturers,
		logger:        logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.claimService, s.verification, s.notifications, s.lecturers, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/claims", handlers.CreateClaim)
		api.GET("/claims", handlers.ListClaims)
		api.GET("/claims/pending", handlers.ListPendingClaims)
		api.GET("/claims/:id", handlers.GetClaim)
		api.PUT("/claims/:id", handlers.EditClaim)
		api.DELETE("/claims/:id", handlers.DeleteClaim)
		api.POST("/claims/:id/actions", handlers.ApplyAction)
		api.GET("/claims/:id/verification", handlers.VerifyClaim)
		api.POST("/claims/:id/documents", handlers.AddDocument)
		api.GET("/claims/:id/documents/:docID", handlers.DownloadDocument)
		api.DELETE("/claims/:id/documents/:docID", handlers.DeleteDocument)

		api.POST("/lecturers", handlers.CreateLecturer)
		api.GET("/lecturers", handlers.ListLecturers)
		api.GET("/lecturers/:id", handlers.GetLecturer)
		api.PUT("/lecturers/:id", handlers.UpdateLecturer)
		api.DELETE("/lecturers/:id", handlers.DeleteLecturer)

		api.GET("/notifications", handlers.ListUnreadNotifications)
		api.POST("/notifications/:id/read", handlers.MarkNotificationRead)
	}
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
