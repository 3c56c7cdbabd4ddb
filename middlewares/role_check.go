package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablebook/reservation-app/utils"
)

// RequireOwner rejects requests whose token does not carry the owner role.
// Ownership of the specific restaurant is still checked in the handler.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}
		if role != "owner" {
			utils.RespondError(c, http.StatusForbidden, errors.New("restaurant owner access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
