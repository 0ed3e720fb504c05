package routes

import (
	productcontroller "github.com/Ricci-ricci/backend/controllers/product"
	"github.com/gin-gonic/gin"
)

// SetupProductRoutes registers "/api/products/*" and "/api/categories".
func SetupProductRoutes(api *gin.RouterGroup, deps Deps) {
	svc := productcontroller.NewService(deps.Store, deps.Catalog)

	products := api.Group("/products")
	{
		// ──────────────── Browse ────────────────
		products.GET("", productcontroller.GetProducts(svc))
		products.GET("/published", productcontroller.GetPublishedProducts(svc))
		products.GET("/ws", deps.Catalog.ServeWS)
		products.GET("/:id", productcontroller.GetProductByID(svc))

		// ──────────────── Manage ────────────────
		manage := products.Group("", guard(deps)...)
		manage.POST("", productcontroller.CreateProduct(svc))
		manage.PUT("/:id", productcontroller.UpdateProduct(svc))
		manage.DELETE("/:id", productcontroller.DeleteProduct(svc))
		manage.GET("/export", productcontroller.ExportProductsToExcel(svc))
		manage.POST("/import", productcontroller.ImportProductsFromExcel(svc))
	}

	api.GET("/categories", productcontroller.GetCategories(svc))
}
