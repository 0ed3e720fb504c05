package routes

import (
	cartControllers "github.com/Ricci-ricci/backend/controllers/cart"
	"github.com/Ricci-ricci/backend/middleware"
	"github.com/gin-gonic/gin"
)

// SetupCartRoutes registers all "/api/cart/*" endpoints. Requires a session.
func SetupCartRoutes(api *gin.RouterGroup, deps Deps) {
	svc := cartControllers.NewService(deps.Store, deps.Config.StrictCartStock)

	cartGroup := api.Group("/cart", middleware.Authenticate(deps.Auth, deps.Config.CookieName))
	{
		cartGroup.POST("", cartControllers.AddToCart(svc))                      // POST /api/cart
		cartGroup.GET("/:userId", cartControllers.GetUserCart(svc))             // GET /api/cart/:userId
		cartGroup.PUT("/items/:itemId", cartControllers.UpdateCartItem(svc))    // PUT /api/cart/items/:itemId
		cartGroup.DELETE("/items/:itemId", cartControllers.DeleteCartItem(svc)) // DELETE /api/cart/items/:itemId
		cartGroup.DELETE("/:userId", cartControllers.ClearUserCart(svc))        // DELETE /api/cart/:userId
	}
}
