package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
)

// AdminOnlyMiddleware restricts a route group to admin users.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		userID := c.GetString("user_id")

		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			logs.LogJSON("WARN", "Non-authenticated user tried admin route", map[string]interface{}{
				"route": route,
			})
			return
		}

		isAdmin, err := user.IsAdmin(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Admin check failed"})
			logs.LogJSON("ERROR", "Admin check DB error", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": userID,
			})
			return
		}

		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admins only"})
			logs.LogJSON("WARN", "Non-admin user blocked from admin route", map[string]interface{}{
				"route":  route,
				"userID": userID,
			})
			return
		}

		c.Next()
	}
}
