package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/domain"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}

// statusFor maps an application error to its HTTP status
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case domain.IsForbidden(err):
		return http.StatusForbidden
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err; internal errors are logged and their detail hidden
func (h *Handlers) respondError(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "operation", op, "path", c.Request.URL.Path, "error", err)
		fail(c, status, "internal server error")
		return
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		fail(c, status, domain.ErrUnauthorized.Error())
		return
	}
	fail(c, status, err.Error())
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// parseDate reads a YYYY-MM-DD date in local time; empty yields the zero time
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: field, Msg: "must be YYYY-MM-DD", Err: err}
	}
	return t, nil
}
