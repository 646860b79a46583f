package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/domain/entity"
)

type listNotificationsQuery struct {
	Unread bool `form:"unread"`
	Limit  int  `form:"limit"`
}

// ListNotifications handles GET /api/v1/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var q listNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	items, err := h.services.Notification.List(c.Request.Context(), user.ID, q.Unread, q.Limit)
	if err != nil {
		h.respondError(c, "list notifications", err)
		return
	}
	if items == nil {
		items = []*entity.Notification{}
	}

	ok(c, http.StatusOK, items)
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *Handlers) UnreadCount(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	count, err := h.services.Notification.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, "count notifications", err)
		return
	}

	ok(c, http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	if err := h.services.Notification.MarkRead(c.Request.Context(), user.ID, id); err != nil {
		h.respondError(c, "mark notification read", err)
		return
	}

	ok(c, http.StatusOK, gin.H{"id": id})
}
