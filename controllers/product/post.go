package productcontroller

import (
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
)

type createRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" binding:"gte=0"`
	Stock        int      `json:"stock" binding:"gte=0"`
	Published    bool     `json:"published"`
	Image        string   `json:"image"`
	Features     []string `json:"features"`
	CategoryName string   `json:"categoryName"`
}

func (r createRequest) input() Input {
	features := r.Features
	if features == nil {
		features = []string{}
	}
	return Input{
		Title:        &r.Title,
		Description:  &r.Description,
		Price:        &r.Price,
		Stock:        &r.Stock,
		Published:    &r.Published,
		Image:        &r.Image,
		Features:     &features,
		CategoryName: &r.CategoryName,
	}
}

// POST /api/products
func CreateProduct(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRequest
		if !response.Bind(c, &req) {
			return
		}

		product, err := svc.Create(c.Request.Context(), req.input())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, product, "")
	}
}
