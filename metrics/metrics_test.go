package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/products/:id", "404"))

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/products/:id", "404"))
	assert.Equal(t, before+2, after)
}

func TestRecordCartAddition(t *testing.T) {
	before := testutil.ToFloat64(cartAdditions.WithLabelValues("merged"))
	RecordCartAddition(false)
	assert.Equal(t, before+1, testutil.ToFloat64(cartAdditions.WithLabelValues("merged")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordLogin(true)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_auth_logins_total")
}
