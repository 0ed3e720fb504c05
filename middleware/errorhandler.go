package middleware

import (
	"net/http"

	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const internalErrorMessage = "An unexpected internal server error occurred."

// ErrorHandler renders errors that handlers attached with c.Error but did
// not answer themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"error":  c.Errors.String(),
		}).Error("❌ Unhandled request error")

		c.JSON(http.StatusInternalServerError, response.Envelope{
			Success: false,
			Error:   internalErrorMessage,
		})
	}
}

// Recovery turns panics into the same 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  recovered,
		}).Error("🔥 Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope{
			Success: false,
			Error:   internalErrorMessage,
		})
	})
}
