package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/rateconfig"
)

type previewAllowanceRequest struct {
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	IsOverseas bool                `json:"is_overseas"`
	Rates      *rateconfig.Partial `json:"rates"`
}

// PreviewResponse carries a breakdown, or ready=false while a date is missing
type PreviewResponse struct {
	Ready     bool        `json:"ready"`
	Breakdown interface{} `json:"breakdown,omitempty"`
}

// GetAllowanceSettings handles GET /api/v1/me/allowance-settings
func (h *Handlers) GetAllowanceSettings(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	rates, err := h.services.Allowance.GetRates(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, "get allowance settings", err)
		return
	}

	ok(c, http.StatusOK, rates)
}

// SaveAllowanceSettings handles PUT /api/v1/me/allowance-settings. Omitted fields take
// the defaults of the submitted version.
func (h *Handlers) SaveAllowanceSettings(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req rateconfig.Partial
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rates, err := h.services.Allowance.SaveRates(c.Request.Context(), user.ID, req)
	if err != nil {
		h.respondError(c, "save allowance settings", err)
		return
	}

	ok(c, http.StatusOK, rates)
}

// PreviewAllowance handles POST /api/v1/allowances/preview
func (h *Handlers) PreviewAllowance(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req previewAllowanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		h.respondError(c, "preview allowance", err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		h.respondError(c, "preview allowance", err)
		return
	}

	breakdown, err := h.services.Allowance.Preview(c.Request.Context(), user.ID, service.PreviewInput{
		StartDate:  start,
		EndDate:    end,
		IsOverseas: req.IsOverseas,
		Rates:      req.Rates,
	})
	if err != nil {
		h.respondError(c, "preview allowance", err)
		return
	}

	if breakdown == nil {
		ok(c, http.StatusOK, PreviewResponse{Ready: false})
		return
	}
	ok(c, http.StatusOK, PreviewResponse{Ready: true, Breakdown: breakdown})
}
