package handlers

import (
	"github.com/gin-gonic/gin"

	svcErr "github.com/veritydate/verity-backend/internal/errors"
	"github.com/veritydate/verity-backend/internal/http/middleware"
)

func currentUser(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

func isPremium(c *gin.Context) bool {
	return c.GetBool(middleware.CtxPremium)
}

// fail writes the mapped status + message for a service error.
func fail(c *gin.Context, err error) {
	c.JSON(svcErr.HTTPStatus(err), gin.H{"error": svcErr.Message(err)})
}
