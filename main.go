package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Ricci-ricci/backend/auth"
	"github.com/Ricci-ricci/backend/config"
	productcontroller "github.com/Ricci-ricci/backend/controllers/product"
	"github.com/Ricci-ricci/backend/database"
	"github.com/Ricci-ricci/backend/metrics"
	"github.com/Ricci-ricci/backend/middleware"
	"github.com/Ricci-ricci/backend/routes"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)
	log.Info("✅ Starting application...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init DB
	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	st := store.NewGormStore(db)

	// Session revocation list
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if rdb != nil {
		revoker = auth.NewRedisRevoker(rdb)
		defer rdb.Close()
	}

	hasher := auth.NewHasher()
	authService := auth.NewService(st, hasher, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), revoker)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	limiter.StartCleanup(ctx, time.Minute)

	catalogHub := productcontroller.NewHub(cfg.CORSOrigins)
	defer catalogHub.Close()

	// Gin setup
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		middleware.ErrorHandler(),
	)

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve seeded product images
	r.Static("/uploads", filepath.Clean(cfg.UploadsDir))

	routes.SetupRoutes(r, routes.Deps{
		Config:  cfg,
		Store:   st,
		Auth:    authService,
		Hasher:  hasher,
		Catalog: catalogHub,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("🚀 Server running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("❌ Graceful shutdown failed: %v", err)
	}
	if err := st.Close(); err != nil {
		log.Errorf("❌ Failed to close database: %v", err)
	}
	log.Info("👋 Server stopped")
}

func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.GinMode == gin.ReleaseMode {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
