package productcontroller

import (
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

// GET /api/products/:id
func GetProductByID(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, product, "")
	}
}
