package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

type submitTripRequest struct {
	Destination string `json:"destination"`
	Purpose     string `json:"purpose"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsOverseas  bool   `json:"is_overseas"`
}

type listTripsQuery struct {
	Status string `form:"status"`
	UserID int64  `form:"user_id"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// SubmitTrip handles POST /api/v1/trips
func (h *Handlers) SubmitTrip(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req submitTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		h.respondError(c, "submit trip", err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		h.respondError(c, "submit trip", err)
		return
	}

	trip, err := h.services.Trip.Submit(c.Request.Context(), user.ID, service.SubmitTripInput{
		Destination: req.Destination,
		Purpose:     req.Purpose,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		IsOverseas:  req.IsOverseas,
	})
	if err != nil {
		h.respondError(c, "submit trip", err)
		return
	}

	ok(c, http.StatusCreated, trip)
}

// ListTrips handles GET /api/v1/trips
func (h *Handlers) ListTrips(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var q listTripsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	trips, err := h.services.Trip.List(c.Request.Context(), user, entity.TripFilter{
		UserID: q.UserID,
		Status: q.Status,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		h.respondError(c, "list trips", err)
		return
	}
	if trips == nil {
		trips = []*entity.TripApplication{}
	}

	ok(c, http.StatusOK, trips)
}

// TripDetail is a trip application with the actions the caller may take on it
type TripDetail struct {
	*entity.TripApplication
	AllowedActions []workflow.Trigger `json:"allowed_actions"`
}

// GetTrip handles GET /api/v1/trips/:id
func (h *Handlers) GetTrip(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	ctx := c.Request.Context()
	trip, err := h.services.Trip.Get(ctx, user, id)
	if err != nil {
		h.respondError(c, "get trip", err)
		return
	}

	ok(c, http.StatusOK, TripDetail{
		TripApplication: trip,
		AllowedActions:  h.services.Trip.AllowedActions(ctx, user, trip),
	})
}

// CancelTrip handles POST /api/v1/trips/:id/cancel
func (h *Handlers) CancelTrip(c *gin.Context) {
	h.tripAction(c, "cancel trip", h.services.Trip.Cancel)
}

// ApproveTrip handles POST /api/v1/trips/:id/approve
func (h *Handlers) ApproveTrip(c *gin.Context) {
	h.tripAction(c, "approve trip", h.services.Trip.Approve)
}

// RejectTrip handles POST /api/v1/trips/:id/reject
func (h *Handlers) RejectTrip(c *gin.Context) {
	h.tripAction(c, "reject trip", h.services.Trip.Reject)
}

// DeleteTrip handles DELETE /api/v1/trips/:id
func (h *Handlers) DeleteTrip(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	if err := h.services.Trip.Delete(c.Request.Context(), user, id); err != nil {
		h.respondError(c, "delete trip", err)
		return
	}

	ok(c, http.StatusOK, gin.H{"id": id})
}

type tripFunc func(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error)

func (h *Handlers) tripAction(c *gin.Context, op string, fn tripFunc) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	trip, err := fn(c.Request.Context(), user, id)
	if err != nil {
		h.respondError(c, op, err)
		return
	}

	ok(c, http.StatusOK, trip)
}
