package cartControllers

import (
	"github.com/Ricci-ricci/backend/middleware"
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func actorFrom(c *gin.Context) Actor {
	return Actor{UserID: middleware.CurrentUserID(c), Admin: middleware.IsAdmin(c)}
}

// POST /api/cart
func AddToCart(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if !response.Bind(c, &req) {
			return
		}

		item, created, err := svc.AddToCart(c.Request.Context(), actorFrom(c), req.UserID, req.ProductID, req.Quantity)
		if err != nil {
			response.Error(c, err)
			return
		}

		if created {
			response.Created(c, item, "Product added to cart")
			return
		}
		response.OK(c, item, "Cart item updated")
	}
}

// GET /api/cart/:userId
func GetUserCart(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.GetCart(c.Request.Context(), actorFrom(c), c.Param("userId"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, cart, "")
	}
}

// PUT /api/cart/items/:itemId
func UpdateCartItem(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if !response.Bind(c, &req) {
			return
		}

		item, err := svc.UpdateCartItem(c.Request.Context(), actorFrom(c), c.Param("itemId"), *req.Quantity)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, item, "Cart item updated")
	}
}

// DELETE /api/cart/items/:itemId
func DeleteCartItem(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveCartItem(c.Request.Context(), actorFrom(c), c.Param("itemId")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, nil, "Item removed from cart")
	}
}

// DELETE /api/cart/:userId
func ClearUserCart(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearCart(c.Request.Context(), actorFrom(c), c.Param("userId")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, nil, "Cart cleared successfully")
	}
}
