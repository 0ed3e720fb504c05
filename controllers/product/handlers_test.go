package productcontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", GetProducts(svc))
	r.GET("/products/published", GetPublishedProducts(svc))
	r.GET("/products/export", ExportProductsToExcel(svc))
	r.POST("/products/import", ImportProductsFromExcel(svc))
	r.GET("/products/:id", GetProductByID(svc))
	r.POST("/products", CreateProduct(svc))
	r.PUT("/products/:id", UpdateProduct(svc))
	r.DELETE("/products/:id", DeleteProduct(svc))
	r.GET("/categories", GetCategories(svc))
	return r
}

func doJSON(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestProductCRUDEndpoints(t *testing.T) {
	svc, _ := newService()
	r := newRouter(svc)

	w, env := doJSON(r, http.MethodPost, "/products", `{"title":"Runner","price":49.9,"stock":3,"features":["Light"],"categoryName":"Running"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Running", created.CategoryName)

	w, env = doJSON(r, http.MethodPut, "/products/"+created.ID, `{"published":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Product
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.Published)
	assert.Equal(t, "Runner", updated.Title)

	w, env = doJSON(r, http.MethodGet, "/products/published", "")
	require.Equal(t, http.StatusOK, w.Code)
	var published []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &published))
	assert.Len(t, published, 1)

	w, _ = doJSON(r, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Running")

	w, env = doJSON(r, http.MethodDelete, "/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted successfully", env.Message)

	w, env = doJSON(r, http.MethodGet, "/products/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", env.Error)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newService()
	r := newRouter(svc)

	w, env := doJSON(r, http.MethodPost, "/products", `{"title":"Runner","price":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", env.Error)

	w, _ = doJSON(r, http.MethodPut, "/products/whatever", `{"stock":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProductsEmptyIsArray(t *testing.T) {
	svc, _ := newService()
	r := newRouter(svc)

	w, env := doJSON(r, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestExportThenImportRoundTrip(t *testing.T) {
	svc, st := newService()
	r := newRouter(svc)
	published := true
	features := []string{"Grip", "Cushion"}

	_, err := svc.Create(context.Background(), Input{
		Title:        strPtr("Runner"),
		Price:        float(36.5),
		Stock:        intPtr(7),
		Published:    &published,
		Features:     &features,
		CategoryName: strPtr("Running"),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/export", nil))
	require.Equal(t, http.StatusOK, w.Code)

	workbook, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	rows, err := readSheet(workbook)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "36.50", rows[0][3])
	assert.Equal(t, "Grip|Cushion", rows[0][7])

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(w.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":1`)

	all, err := st.ListProducts(context.Background(), store.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 7, all[0].Stock)
	assert.Equal(t, []string{"Grip", "Cushion"}, []string(all[0].Features))
}

func TestImportRequiresFile(t *testing.T) {
	svc, _ := newService()
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/products/import", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Excel file is required")
}
