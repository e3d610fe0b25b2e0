package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veritydate/verity-backend/internal/service/swipe"
)

// SwipeHandler fronts decision recording, the like/match flow and the
// premium operations.
type SwipeHandler struct {
	svc *swipe.Service
}

func NewSwipeHandler(svc *swipe.Service) *SwipeHandler {
	return &SwipeHandler{svc: svc}
}

type targetRequest struct {
	ToUser string `json:"to_user" binding:"required"`
}

// Like handles POST /api/likes
func (h *SwipeHandler) Like(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to_user required"})
		return
	}
	result, err := h.svc.Like(c.Request.Context(), currentUser(c), req.ToUser)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Pass handles POST /api/passes
func (h *SwipeHandler) Pass(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to_user required"})
		return
	}
	if err := h.svc.Pass(c.Request.Context(), currentUser(c), req.ToUser); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Undo handles POST /api/undo
func (h *SwipeHandler) Undo(c *gin.Context) {
	result, err := h.svc.UndoLastPass(c.Request.Context(), currentUser(c), isPremium(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Boost handles POST /api/boost
func (h *SwipeHandler) Boost(c *gin.Context) {
	expiresAt, err := h.svc.Boost(c.Request.Context(), currentUser(c), isPremium(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boost_expires_at": expiresAt})
}

// LikedYou handles GET /api/liked-you?token=&limit=
func (h *SwipeHandler) LikedYou(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	var token *string
	if raw := c.Query("token"); raw != "" {
		token = &raw
	}

	profiles, nextToken, err := h.svc.ListLikedYou(c.Request.Context(), currentUser(c), isPremium(c), token, limit)
	if err != nil {
		fail(c, err)
		return
	}
	resp := gin.H{"profiles": profiles}
	if nextToken != nil {
		resp["next_token"] = *nextToken
	}
	c.JSON(http.StatusOK, resp)
}

// LikedYouCount handles GET /api/liked-you/count
func (h *SwipeHandler) LikedYouCount(c *gin.Context) {
	count, err := h.svc.CountLikedYou(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Matches handles GET /api/matches
func (h *SwipeHandler) Matches(c *gin.Context) {
	matches, err := h.svc.Matches(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
