package main

import (
	"context"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/Ricci-ricci/backend/config"
	"github.com/Ricci-ricci/backend/database"
	"github.com/Ricci-ricci/backend/seed"
	"github.com/Ricci-ricci/backend/store"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("🌱 Starting seed script...")
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	st := store.NewGormStore(db)
	defer st.Close()

	seeder := &seed.Seeder{
		Products: st,
		Dir:      filepath.Join(cfg.UploadsDir, "images"),
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if _, err := seeder.Run(ctx); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
