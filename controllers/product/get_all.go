package productcontroller

import (
	"strings"

	"github.com/Ricci-ricci/backend/response"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gin-gonic/gin"
)

func filterFromQuery(c *gin.Context, publishedOnly bool) store.ProductFilter {
	return store.ProductFilter{
		PublishedOnly: publishedOnly,
		Search:        strings.TrimSpace(c.Query("search")),
		Category:      strings.TrimSpace(c.Query("category")),
	}
}

// GET /api/products
func GetProducts(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context(), filterFromQuery(c, false))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, products, "")
	}
}

// GET /api/products/published
func GetPublishedProducts(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context(), filterFromQuery(c, true))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, products, "")
	}
}
