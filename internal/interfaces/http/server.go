// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HealthChecker reports the health of the components behind the API
type HealthChecker interface {
	Health(ctx context.Context) *port.HealthStatus
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	Mode            string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		Mode:            gin.ReleaseMode,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Services bundles the application services the API exposes
type Services struct {
	Auth         service.AuthService
	Allowance    service.AllowanceService
	Trip         service.TripService
	Regulation   service.RegulationService
	Export       service.ExportService
	Notification service.NotificationService
	Expense      service.ExpenseService
	TripReport   service.TripReportService
	Dashboard    service.DashboardService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	health     HealthChecker
	logger     Logger
}

// NewServer creates a new HTTP server with the given services. health may be nil.
func NewServer(config ServerConfig, services Services, health HealthChecker, logger Logger) *Server {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Amounts are JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		health:   health,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: len(s.config.AllowedOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(s.config.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.config.AllowedOrigins
	}
	s.router.Use(cors.New(corsConfig))
}

// loggingMiddleware creates a logging middleware
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

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.health, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protected := api.Group("")
	protected.Use(AuthMiddleware(s.services.Auth))

	me := protected.Group("/me")
	{
		me.GET("/profile", h.GetProfile)
		me.PUT("/profile", h.UpdateProfile)
		me.GET("/allowance-settings", h.GetAllowanceSettings)
		me.PUT("/allowance-settings", h.SaveAllowanceSettings)
	}

	protected.POST("/allowances/preview", h.PreviewAllowance)

	trips := protected.Group("/trips")
	{
		trips.POST("", h.SubmitTrip)
		trips.GET("", h.ListTrips)
		trips.GET("/:id", h.GetTrip)
		trips.DELETE("/:id", h.DeleteTrip)
		trips.POST("/:id/cancel", h.CancelTrip)
		trips.POST("/:id/approve", RequireRoles(entity.RoleManager, entity.RoleAdmin), h.ApproveTrip)
		trips.POST("/:id/reject", RequireRoles(entity.RoleManager, entity.RoleAdmin), h.RejectTrip)
	}

	regulations := protected.Group("/regulations")
	{
		regulations.GET("/template", h.RegulationTemplate)
		regulations.POST("/preview", h.PreviewRegulation)
		regulations.POST("", h.CreateRegulation)
		regulations.GET("", h.ListRegulations)
		regulations.GET("/:id", h.GetRegulation)
		regulations.PUT("/:id", h.UpdateRegulation)
		regulations.DELETE("/:id", h.DeleteRegulation)
		regulations.POST("/:id/exports", h.CreateExport)
		regulations.GET("/:id/exports", h.ListExports)
	}

	protected.GET("/exports/:id", h.DownloadExport)

	protected.GET("/expense-categories", h.ListExpenseCategories)

	expenses := protected.Group("/expenses")
	{
		expenses.POST("", h.SubmitExpense)
		expenses.GET("", h.ListExpenses)
		expenses.GET("/:id", h.GetExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
		expenses.POST("/:id/cancel", h.CancelExpense)
		expenses.POST("/:id/approve", RequireRoles(entity.RoleManager, entity.RoleAdmin), h.ApproveExpense)
		expenses.POST("/:id/reject", RequireRoles(entity.RoleManager, entity.RoleAdmin), h.RejectExpense)
	}

	reports := protected.Group("/trip-reports")
	{
		reports.POST("", h.CreateTripReport)
		reports.GET("", h.ListTripReports)
		reports.GET("/candidates", h.TripReportCandidates)
		reports.GET("/:id", h.GetTripReport)
		reports.PUT("/:id", h.UpdateTripReport)
		reports.DELETE("/:id", h.DeleteTripReport)
		reports.POST("/:id/submit", h.SubmitTripReport)
	}

	protected.GET("/dashboard/stats", h.DashboardStats)
	protected.GET("/applications", h.ListApplications)

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the listener fails
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

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
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
