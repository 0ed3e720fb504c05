package middleware

import (
	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/auth"
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// Authenticate requires a valid session from the cookie or a Bearer
// header and stores the caller's identity on the context.
func Authenticate(svc *auth.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := svc.Authenticate(c.Request.Context(), auth.TokenFromRequest(c, cookieName))
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.Error(c, apperrors.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, or "".
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(ContextRole)
	r, ok := role.(models.Role)
	return ok && r == models.RoleAdmin
}
