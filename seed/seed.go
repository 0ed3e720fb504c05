// Package seed fills the catalog from a directory of product images.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var (
	possibleFeatures = []string{
		"Waterproof",
		"Lightweight Design",
		"Premium Leather",
		"Shock Absorbent",
		"Eco-friendly Materials",
		"Breathable Mesh",
		"Non-slip Sole",
		"Quick Dry",
		"Memory Foam Insole",
		"Reflective Details",
		"All-day Comfort",
		"Limited Edition",
		"Sustainable Packaging",
		"High Durability",
		"Flexible Fit",
		"Arch Support",
	}

	categoryNames = []string{"Running", "Lifestyle", "Training", "Basketball", "Outdoor"}

	fallbackAdjectives = []string{"Classic", "Modern", "Urban", "Performance", "Elite"}
	fallbackNouns      = []string{"Sneaker", "Runner", "Trainer", "Sportswear", "Kicks"}

	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

	separators = regexp.MustCompile(`[_\-]`)
	copyMarker = regexp.MustCompile(`\(\d+\)`)
	spaces     = regexp.MustCompile(`\s+`)
)

const (
	maxTitleLen = 50
	minPrice    = 50.0
	maxPrice    = 300.0
	maxStock    = 100
)

// CleanTitle derives a display title from an image filename.
func CleanTitle(filename string, rnd *rand.Rand) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	title := separators.ReplaceAllString(name, " ")
	title = copyMarker.ReplaceAllString(title, "")
	title = strings.TrimSpace(spaces.ReplaceAllString(title, " "))

	runes := []rune(title)
	if len(runes) < 3 {
		return fallbackAdjectives[rnd.Intn(len(fallbackAdjectives))] + " " + fallbackNouns[rnd.Intn(len(fallbackNouns))]
	}
	if len(runes) > maxTitleLen {
		return string(runes[:maxTitleLen-3]) + "..."
	}
	return title
}

// SanitizeFilename slugs the base name and appends a random suffix,
// keeping the extension.
func SanitizeFilename(filename string, rnd *rand.Rand) string {
	ext := filepath.Ext(filename)
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), ext))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%d%s", base, rnd.Intn(1000), strings.ToLower(ext))
}

func randomFeatures(rnd *rand.Rand) []string {
	count := 2 + rnd.Intn(3)
	shuffled := append([]string(nil), possibleFeatures...)
	rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:count]
}

func randomPrice(rnd *rand.Rand) float64 {
	return models.ToCents(minPrice + rnd.Float64()*(maxPrice-minPrice)).Float64()
}

// Seeder resets the catalog and creates one product per image in Dir.
type Seeder struct {
	Products store.ProductStore
	Dir      string
	Rand     *rand.Rand
}

// Run returns the number of products created. Images that fail are
// logged and skipped.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, fmt.Errorf("images directory: %w", err)
	}

	log.Info("🧹 Clearing catalog...")
	if err := s.Products.ResetCatalog(ctx); err != nil {
		return 0, fmt.Errorf("reset catalog: %w", err)
	}

	log.Info("📂 Creating categories...")
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category, err := s.Products.FindOrCreateCategory(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("create category %q: %w", name, err)
		}
		categories = append(categories, category)
	}

	created := 0
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if err := s.seedImage(ctx, entry.Name(), categories); err != nil {
			log.WithError(err).WithField("image", entry.Name()).Error("❌ Failed to create product for image")
			continue
		}
		created++
	}

	log.Infof("✨ Seeding completed! Created %d products.", created)
	return created, nil
}

func (s *Seeder) seedImage(ctx context.Context, file string, categories []*models.Category) error {
	title := CleanTitle(file, s.Rand)
	newName := SanitizeFilename(file, s.Rand)

	if err := os.Rename(filepath.Join(s.Dir, file), filepath.Join(s.Dir, newName)); err != nil {
		return err
	}

	category := categories[s.Rand.Intn(len(categories))]
	product := &models.Product{
		Title:        title,
		Description:  fmt.Sprintf("Experience the best quality with the %s. Featuring top-tier materials and design suitable for any occasion.", title),
		Price:        randomPrice(s.Rand),
		Stock:        s.Rand.Intn(maxStock),
		Published:    true,
		Image:        "/uploads/images/" + newName,
		Features:     pq.StringArray(randomFeatures(s.Rand)),
		CategoryID:   &category.ID,
		CategoryName: category.Name,
	}
	return s.Products.CreateProduct(ctx, product)
}
