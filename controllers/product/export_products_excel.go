package productcontroller

import (
	"strconv"
	"strings"

	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/response"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

func buildWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range sheetHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Title)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetString(models.ToCents(p.Price).String())
		row.AddCell().SetString(strconv.Itoa(p.Stock))
		row.AddCell().SetString(strconv.FormatBool(p.Published))
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(strings.Join(p.Features, featureSeparator))
		row.AddCell().SetValue(p.CategoryName)
	}
	return file, nil
}

// GET /api/products/export
func ExportProductsToExcel(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context(), store.ProductFilter{})
		if err != nil {
			response.Error(c, err)
			return
		}

		file, err := buildWorkbook(products)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
