package productcontroller

import (
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

type updateRequest struct {
	Title        *string   `json:"title" binding:"omitempty,min=1"`
	Description  *string   `json:"description"`
	Price        *float64  `json:"price" binding:"omitempty,gte=0"`
	Stock        *int      `json:"stock" binding:"omitempty,gte=0"`
	Published    *bool     `json:"published"`
	Image        *string   `json:"image"`
	Features     *[]string `json:"features"`
	CategoryName *string   `json:"categoryName"`
}

func (r updateRequest) input() Input {
	return Input{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Stock:        r.Stock,
		Published:    r.Published,
		Image:        r.Image,
		Features:     r.Features,
		CategoryName: r.CategoryName,
	}
}

// PUT /api/products/:id
func UpdateProduct(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateRequest
		if !response.Bind(c, &req) {
			return
		}

		product, err := svc.Update(c.Request.Context(), c.Param("id"), req.input())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, product, "")
	}
}
