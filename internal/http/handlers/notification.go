package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veritydate/verity-backend/internal/app"
	"github.com/veritydate/verity-backend/internal/repository"
)

// NotificationHandler exposes the persisted side of the notify sink.
type NotificationHandler struct {
	appCtx *app.AppContext
	repo   *repository.NotificationRepository
}

func NewNotificationHandler(appCtx *app.AppContext) *NotificationHandler {
	return &NotificationHandler{
		appCtx: appCtx,
		repo:   repository.NewNotificationRepository(appCtx.DB),
	}
}

// List handles GET /api/notifications?limit=
func (h *NotificationHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	items, err := h.repo.ListForUser(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// MarkRead handles POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.repo.MarkRead(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
