package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/kokum-coast/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextSubject = "subject"
	ContextRole    = "role"
)

// AuthMiddleware requires a valid bearer token and exposes its claims
// to later handlers.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			utils.InfoLogger.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Info("admin auth rejected")
			utils.RespondAppError(c, err)
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}
