// Package http exposes the billing console over a JSON API.
// This is a thin adapter layer translating requests into view derivations,
// exports and orchestrator calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/orchestrator"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/cache"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NotificationLister returns recent notifications, newest first
type NotificationLister interface {
	List(limit int) []entity.Notification
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
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

// Deps are the application components served by the API
type Deps struct {
	Orchestrator    orchestrator.Orchestrator
	Collections     cache.Getter
	Sessions        *view.Registry
	Notifications   NotificationLister
	PrivilegedRoles []entity.Role
	// ClampPolicy bounds the page of GET /api/invoices the way sessions do
	ClampPolicy view.ClampPolicy
	// Health reports component health; nil reports healthy
	Health func() (bool, interface{})
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	deps       Deps
	logger     Logger
}

// NewServer creates a new HTTP server over the given components
func NewServer(config ServerConfig, deps Deps, logger Logger) *Server {
	if config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config: config,
		router: gin.New(),
		deps:   deps,
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(roleMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.deps, s.logger)
	privileged := requireRole(s.deps.PrivilegedRoles)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		invoices := api.Group("/invoices")
		invoices.GET("", h.ListInvoices)
		invoices.GET("/export", privileged, h.ExportInvoices)
		invoices.POST("/generate", privileged, h.GenerateInvoices)
		invoices.POST("/:id/select", h.SelectInvoice)
		invoices.POST("/:id/payment-form", h.OpenPaymentForm)
		invoices.POST("/:id/payments", h.RegisterPayment)
		invoices.POST("/:id/payment-link", h.GeneratePaymentLink)
		invoices.DELETE("/:id/payment-link", h.CloseLinkView)

		api.DELETE("/payment-form", h.ClosePaymentForm)
		api.GET("/state", h.GetState)
		api.GET("/notifications", h.ListNotifications)

		api.GET("/dashboard", h.GetDashboard)
		api.GET("/reports", h.GetReports)
		api.GET("/members/:id/profile", h.GetProfile)

		sessions := api.Group("/sessions")
		sessions.POST("", h.CreateSession)
		sessions.GET("/:sid", h.GetSession)
		sessions.PATCH("/:sid", h.UpdateSession)
		sessions.DELETE("/:sid", h.DeleteSession)
		sessions.GET("/:sid/export", privileged, h.ExportSession)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
