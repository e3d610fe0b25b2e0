package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veritydate/verity-backend/internal/service/discovery"
)

// DiscoverHandler fronts the discovery query.
type DiscoverHandler struct {
	svc *discovery.Service
}

func NewDiscoverHandler(svc *discovery.Service) *DiscoverHandler {
	return &DiscoverHandler{svc: svc}
}

// Discover handles GET /api/discover?limit=&verified_only=&active_recently=
func (h *DiscoverHandler) Discover(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	filters := discovery.Filters{
		VerifiedOnly:   c.Query("verified_only") == "true",
		ActiveRecently: c.Query("active_recently") == "true",
	}

	profiles, err := h.svc.Discover(c.Request.Context(), currentUser(c), limit, filters)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
