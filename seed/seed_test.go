package seed

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTitle(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	assert.Equal(t, "air max 90", CleanTitle("air_max-90.jpg", rnd))
	assert.Equal(t, "Runner", CleanTitle("Runner (2).png", rnd))
	assert.Equal(t, "a b", CleanTitle("  a   b  .webp", rnd))

	fallback := CleanTitle("x.jpg", rnd)
	parts := strings.Split(fallback, " ")
	require.Len(t, parts, 2)
	assert.Contains(t, fallbackAdjectives, parts[0])
	assert.Contains(t, fallbackNouns, parts[1])

	long := CleanTitle(strings.Repeat("a", 60)+".jpg", rnd)
	assert.Len(t, long, 50)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestSanitizeFilename(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	name := SanitizeFilename("Air Max (2)!.JPG", rnd)
	assert.Regexp(t, `^air-max-2-\d{1,3}\.jpg$`, name)

	assert.Regexp(t, `^image-\d{1,3}\.png$`, SanitizeFilename("!!!.png", rnd))
}

func TestRandomValuesStayInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		features := randomFeatures(rnd)
		assert.GreaterOrEqual(t, len(features), 2)
		assert.LessOrEqual(t, len(features), 4)

		price := randomPrice(rnd)
		assert.GreaterOrEqual(t, price, minPrice)
		assert.LessOrEqual(t, price, maxPrice)
		assert.Equal(t, price, models.ToCents(price).Float64())
	}
}

func TestRunSeedsOneProductPerImage(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"trail_runner.jpg", "court-king.PNG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.jpg"), 0o755))

	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.CreateProduct(ctx, &models.Product{Title: "Stale"}))

	s := &Seeder{Products: st, Dir: dir, Rand: rand.New(rand.NewSource(3))}
	created, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	products, err := st.ListProducts(ctx, store.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.True(t, p.Published)
		assert.Contains(t, categoryNames, p.CategoryName)
		assert.NotNil(t, p.CategoryID)
		assert.True(t, strings.HasPrefix(p.Image, "/uploads/images/"))
		_, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(p.Image, "/uploads/images/")))
		assert.NoError(t, err)
	}

	categories, err := st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(categoryNames))

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestRunMissingDirectory(t *testing.T) {
	s := &Seeder{Products: store.NewMemoryStore(), Dir: filepath.Join(t.TempDir(), "missing"), Rand: rand.New(rand.NewSource(1))}
	_, err := s.Run(context.Background())
	assert.Error(t, err)
}
