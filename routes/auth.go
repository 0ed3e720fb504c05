package routes

import (
	"github.com/Ricci-ricci/backend/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/api/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, deps Deps) {
	cookie := auth.CookieConfig{
		Name:   deps.Config.CookieName,
		Domain: deps.Config.CookieDomain,
		Secure: deps.Config.CookieSecure,
		MaxAge: deps.Config.TokenTTL,
	}

	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("")
		if deps.Limiter != nil {
			limited.Use(deps.Limiter.Handler())
		}
		limited.POST("/register", auth.RegisterHandler(deps.Auth))
		limited.POST("/login", auth.LoginHandler(deps.Auth, cookie))

		authGroup.POST("/logout", auth.LogoutHandler(deps.Auth, cookie))
		authGroup.GET("/verify", auth.VerifyHandler(deps.Auth, cookie))
	}
}
