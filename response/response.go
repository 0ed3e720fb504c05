// Package response renders the JSON envelope every endpoint answers with.
package response

import (
	"net/http"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    interface{}            `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Error renders err when it is an *apperrors.Error. Anything else is
// attached to the context and left for middleware.ErrorHandler.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok && appErr.Kind != apperrors.KindInternal {
		c.AbortWithStatusJSON(appErr.Status(), Envelope{
			Success: false,
			Error:   appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}
	_ = c.Error(err)
	c.Abort()
}
