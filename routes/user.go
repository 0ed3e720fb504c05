package routes

import (
	userControllers "github.com/Ricci-ricci/backend/controllers/user"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/api/users/*" endpoints.
func SetupUserRoutes(api *gin.RouterGroup, deps Deps) {
	svc := userControllers.NewService(deps.Store, deps.Hasher)

	users := api.Group("/users", guard(deps)...)
	{
		users.GET("", userControllers.GetAllUsers(svc))
		users.GET("/:id", userControllers.GetUser(svc))
		users.PUT("/:id", userControllers.UpdateUser(svc))
		users.DELETE("/:id", userControllers.DeleteUser(svc))
	}
}
