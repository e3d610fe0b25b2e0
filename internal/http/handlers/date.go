package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritydate/verity-backend/internal/service/date"
)

// DateHandler fronts the Verity Date lifecycle.
type DateHandler struct {
	svc *date.Service
}

func NewDateHandler(svc *date.Service) *DateHandler {
	return &DateHandler{svc: svc}
}

// Get handles GET /api/dates/:id
func (h *DateHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type scheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// Schedule handles POST /api/dates/:id/schedule
func (h *DateHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at (RFC3339) required"})
		return
	}
	if err := h.svc.Schedule(c.Request.Context(), c.Param("id"), currentUser(c), req.ScheduledAt); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Room handles POST /api/dates/:id/room — create-or-return the video room.
func (h *DateHandler) Room(c *gin.Context) {
	url, err := h.svc.EnsureRoom(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_url": url})
}

type feedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// Feedback handles POST /api/dates/:id/feedback
func (h *DateHandler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedback required"})
		return
	}
	result, err := h.svc.SubmitFeedback(c.Request.Context(), c.Param("id"), currentUser(c), req.Feedback)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
