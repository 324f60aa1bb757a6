package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/kokum-coast/utils"
)

// RoleCheck lets the request through only when AuthMiddleware stored
// one of the allowed roles.
func RoleCheck(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.RespondAppError(c, utils.ErrMissingCredentials)
			return
		}

		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		utils.RespondAppError(c, utils.ErrForbidden)
	}
}
