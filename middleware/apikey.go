package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

// ValidateAPIKey guards operational endpoints such as /metrics with a
// static X-API-KEY header. An empty key disables the check.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-API-KEY")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Envelope{
				Success: false,
				Error:   "Invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}
