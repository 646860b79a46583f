package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/entity"
)

type createTripReportRequest struct {
	TripID int64 `json:"business_trip_application_id" binding:"required"`
}

type updateTripReportRequest struct {
	ReportTitle string `json:"report_title"`
	Purpose     string `json:"purpose"`
	Content     string `json:"content"`
}

// CreateTripReport handles POST /api/v1/trip-reports
func (h *Handlers) CreateTripReport(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req createTripReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.services.TripReport.Create(c.Request.Context(), user, req.TripID)
	if err != nil {
		h.respondError(c, "create trip report", err)
		return
	}

	ok(c, http.StatusCreated, report)
}

// ListTripReports handles GET /api/v1/trip-reports
func (h *Handlers) ListTripReports(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	reports, err := h.services.TripReport.List(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, "list trip reports", err)
		return
	}
	if reports == nil {
		reports = []*entity.TripReport{}
	}

	ok(c, http.StatusOK, reports)
}

// TripReportCandidates handles GET /api/v1/trip-reports/candidates
func (h *Handlers) TripReportCandidates(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	trips, err := h.services.TripReport.Candidates(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, "list report candidates", err)
		return
	}
	if trips == nil {
		trips = []*entity.TripApplication{}
	}

	ok(c, http.StatusOK, trips)
}

// GetTripReport handles GET /api/v1/trip-reports/:id
func (h *Handlers) GetTripReport(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	report, err := h.services.TripReport.Get(c.Request.Context(), user, id)
	if err != nil {
		h.respondError(c, "get trip report", err)
		return
	}

	ok(c, http.StatusOK, report)
}

// UpdateTripReport handles PUT /api/v1/trip-reports/:id
func (h *Handlers) UpdateTripReport(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	var req updateTripReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.services.TripReport.Update(c.Request.Context(), user, id, service.UpdateTripReportInput{
		Title:   req.ReportTitle,
		Purpose: req.Purpose,
		Content: req.Content,
	})
	if err != nil {
		h.respondError(c, "update trip report", err)
		return
	}

	ok(c, http.StatusOK, report)
}

// SubmitTripReport handles POST /api/v1/trip-reports/:id/submit
func (h *Handlers) SubmitTripReport(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	report, err := h.services.TripReport.Submit(c.Request.Context(), user, id)
	if err != nil {
		h.respondError(c, "submit trip report", err)
		return
	}

	ok(c, http.StatusOK, report)
}

// DeleteTripReport handles DELETE /api/v1/trip-reports/:id
func (h *Handlers) DeleteTripReport(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	if err := h.services.TripReport.Delete(c.Request.Context(), user, id); err != nil {
		h.respondError(c, "delete trip report", err)
		return
	}

	ok(c, http.StatusOK, gin.H{"id": id})
}
