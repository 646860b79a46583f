package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/domain/entity"
)

type listApplicationsQuery struct {
	Status string `form:"status"`
}

// DashboardStats handles GET /api/v1/dashboard/stats
func (h *Handlers) DashboardStats(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	stats, err := h.services.Dashboard.Stats(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, "dashboard stats", err)
		return
	}

	ok(c, http.StatusOK, stats)
}

// ListApplications handles GET /api/v1/applications
func (h *Handlers) ListApplications(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var q listApplicationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	apps, err := h.services.Dashboard.Applications(c.Request.Context(), user.ID, q.Status)
	if err != nil {
		h.respondError(c, "list applications", err)
		return
	}
	if apps == nil {
		apps = []*entity.ApplicationSummary{}
	}

	ok(c, http.StatusOK, apps)
}
