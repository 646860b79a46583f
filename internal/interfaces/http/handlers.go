package http

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	health   HealthChecker
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, health HealthChecker, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		health:   health,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string                          `json:"status"`
	Components map[string]port.ComponentHealth `json:"components,omitempty"`
	Timestamp  string                          `json:"timestamp"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.health == nil {
		ok(c, http.StatusOK, resp)
		return
	}

	status := h.health.Health(c.Request.Context())
	resp.Components = status.Components
	if !status.Overall {
		var failing []string
		for name, component := range status.Components {
			if !component.Healthy {
				failing = append(failing, name)
			}
		}
		sort.Strings(failing)
		h.logger.Error("Health check failed", "components", strings.Join(failing, ","))

		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: resp, Error: "unhealthy: " + strings.Join(failing, ", ")})
		return
	}

	ok(c, http.StatusOK, resp)
}

type registerRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	FullName   string `json:"full_name" binding:"required"`
	Company    string `json:"company"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	FullName   string `json:"full_name"`
	Company    string `json:"company"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// LoginResponse is an issued token with its user
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.services.Auth.Register(c.Request.Context(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		Company:    req.Company,
		Position:   req.Position,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		h.respondError(c, "register", err)
		return
	}

	ok(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}

	ok(c, http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// GetProfile handles GET /api/v1/me/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	profile, err := h.services.Auth.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, "get profile", err)
		return
	}

	ok(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/me/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.services.Auth.UpdateProfile(c.Request.Context(), user.ID, service.ProfileInput(req))
	if err != nil {
		h.respondError(c, "update profile", err)
		return
	}

	ok(c, http.StatusOK, profile)
}
