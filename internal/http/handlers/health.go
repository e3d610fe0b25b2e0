package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veritydate/verity-backend/internal/app"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	appCtx *app.AppContext
}

func NewHealthHandler(appCtx *app.AppContext) *HealthHandler {
	return &HealthHandler{appCtx: appCtx}
}

// HealthCheck handles GET /healthcheck. Degrades to 503 when redis is
// unreachable; DB trouble surfaces through the endpoints themselves.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.appCtx.RedisCache.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
