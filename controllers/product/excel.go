package productcontroller

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

// Spreadsheet columns, shared by import and export.
var sheetHeaders = []string{
	"ID", "Title", "Description", "Price", "Stock",
	"Published", "Image", "Features", "Category",
}

const featureSeparator = "|"

// ImportResult counts what an import did with each data row.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Import creates or updates one product per row. Rows with an ID that
// exists update that product; other rows create a new one. Rows with no
// title, or an unreadable price, stock or published cell are skipped.
// Empty stock and published cells mean 0 and false.
func (s *Service) Import(ctx context.Context, rows [][]string) (ImportResult, error) {
	var result ImportResult

	for i, row := range rows {
		get := func(index int) string {
			if index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}

		id := get(0)
		title := get(1)
		description := get(2)
		price, err := strconv.ParseFloat(get(3), 64)
		if title == "" || err != nil {
			result.Skipped++
			continue
		}
		stock, err := parseOptional(get(4), 0, strconv.Atoi)
		if err != nil {
			log.WithError(err).WithField("row", i+2).Warn("⚠️ Skipping spreadsheet row with unreadable stock")
			result.Skipped++
			continue
		}
		published, err := parseOptional(get(5), false, strconv.ParseBool)
		if err != nil {
			log.WithError(err).WithField("row", i+2).Warn("⚠️ Skipping spreadsheet row with unreadable published flag")
			result.Skipped++
			continue
		}
		image := get(6)
		features := splitFeatures(get(7))
		category := get(8)

		in := Input{
			Title:        &title,
			Description:  &description,
			Price:        &price,
			Stock:        &stock,
			Published:    &published,
			Image:        &image,
			Features:     &features,
			CategoryName: &category,
		}

		if id != "" {
			_, err := s.Update(ctx, id, in)
			if err == nil {
				result.Updated++
				continue
			}
			if !apperrors.Is(err, apperrors.KindNotFound) {
				log.WithError(err).WithField("row", i+2).Warn("⚠️ Skipping spreadsheet row")
				result.Skipped++
				continue
			}
		}

		if _, err := s.Create(ctx, in); err != nil {
			log.WithError(err).WithField("row", i+2).Warn("⚠️ Skipping spreadsheet row")
			result.Skipped++
			continue
		}
		result.Created++
	}

	log.WithFields(log.Fields{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("📥 Catalog import finished")
	s.events.Broadcast(Event{Type: EventImported, Created: result.Created, Updated: result.Updated})
	return result, nil
}

func parseOptional[T any](raw string, zero T, parse func(string) (T, error)) (T, error) {
	if raw == "" {
		return zero, nil
	}
	return parse(raw)
}

func splitFeatures(raw string) []string {
	features := []string{}
	for _, f := range strings.Split(raw, featureSeparator) {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return features
}

// readSheet returns the data rows (header excluded) of the first sheet.
func readSheet(file *xlsx.File) ([][]string, error) {
	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, errors.New("empty sheet")
	}

	sheet := file.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		values := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			values[i] = cell.String()
		}
		rows = append(rows, values)
	}
	return rows, nil
}

// POST /api/products/import
func ImportProductsFromExcel(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			response.Error(c, apperrors.BadRequest("Excel file is required"))
			return
		}

		file, err := header.Open()
		if err != nil {
			response.Error(c, err)
			return
		}
		defer file.Close()

		workbook, err := xlsx.OpenReaderAt(file, header.Size)
		if err != nil {
			response.Error(c, apperrors.Wrap(apperrors.KindBadRequest, "Failed to parse Excel file", err))
			return
		}

		rows, err := readSheet(workbook)
		if err != nil {
			response.Error(c, apperrors.BadRequest("Excel file is empty or missing header row"))
			return
		}

		result, err := svc.Import(c.Request.Context(), rows)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, result, "Import completed")
	}
}
