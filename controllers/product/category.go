package productcontroller

import (
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

// GET /api/categories
func GetCategories(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.Categories(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, categories, "")
	}
}
