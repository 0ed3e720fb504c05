package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/Ricci-ricci/backend/auth"
	"github.com/Ricci-ricci/backend/config"
	productcontroller "github.com/Ricci-ricci/backend/controllers/product"
	"github.com/Ricci-ricci/backend/metrics"
	"github.com/Ricci-ricci/backend/middleware"
	"github.com/Ricci-ricci/backend/response"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gin-gonic/gin"
)

// Deps is everything the route groups need.
type Deps struct {
	Config  *config.Config
	Store   store.Store
	Auth    *auth.Service
	Hasher  auth.Hasher
	Catalog *productcontroller.Hub
	Limiter *middleware.RateLimiter
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, deps Deps) {
	r.GET("/", func(c *gin.Context) {
		response.OK(c, nil, "Welcome to E-Commerce API")
	})
	r.GET("/healthz", healthCheck(deps.Store))
	r.GET("/metrics", middleware.ValidateAPIKey(deps.Config.MetricsAPIKey), gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// 1️⃣ Auth (rate limited)
	SetupAuthRoutes(api, deps)

	// 2️⃣ Catalog
	SetupProductRoutes(api, deps)

	// 3️⃣ User management
	SetupUserRoutes(api, deps)

	// 4️⃣ Cart (session required)
	SetupCartRoutes(api, deps)
}

// guard returns the middleware for management routes: an admin session
// when the catalog is locked down, nothing otherwise.
func guard(deps Deps) []gin.HandlerFunc {
	if !deps.Config.CatalogRequireAdmin {
		return nil
	}
	return []gin.HandlerFunc{
		middleware.Authenticate(deps.Auth, deps.Config.CookieName),
		middleware.RequireAdmin(),
	}
}

func healthCheck(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Envelope{Success: false, Error: "Database unavailable"})
			return
		}
		response.OK(c, gin.H{"status": "ok"}, "")
	}
}
