package auth

import (
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registeredUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// POST /api/auth/register
func RegisterHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if !response.Bind(c, &req) {
			return
		}

		user, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Created(c, registeredUser{ID: user.ID, Name: user.Name, Email: user.Email}, "")
	}
}

// POST /api/auth/login
func LoginHandler(svc *Service, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !response.Bind(c, &req) {
			return
		}

		token, user, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			response.Error(c, err)
			return
		}

		cookie.Set(c, token)
		response.OK(c, loginResult{Token: token, User: user.Public()}, "Login successful")
	}
}

// POST /api/auth/logout
func LogoutHandler(svc *Service, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Logout(c.Request.Context(), TokenFromRequest(c, cookie.Name)); err != nil {
			log.WithError(err).Warn("⚠️ Failed to revoke session token")
		}
		cookie.Clear(c)
		response.OK(c, nil, "Logout successful")
	}
}

// GET /api/auth/verify
func VerifyHandler(svc *Service, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Verify(c.Request.Context(), TokenFromRequest(c, cookie.Name))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, user.Public(), "")
	}
}
