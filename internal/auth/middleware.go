package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal/response"
)

// AuthMiddleware resolves the bearer token and stores the user under "user".
// Browsers cannot set headers on EventSource, so an access_token query
// parameter is accepted as a fallback.
func AuthMiddleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else {
			token = c.Query("access_token")
		}
		if token != "" {
			user, err := provider.ValidateToken(c.Request.Context(), token)
			if err == nil {
				c.Set("user", user)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
	}
}
