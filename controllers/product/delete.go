package productcontroller

import (
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

// DELETE /api/products/:id
func DeleteProduct(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, nil, "Product deleted successfully")
	}
}
