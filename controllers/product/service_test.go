package productcontroller

import (
	"context"
	"testing"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func float(f float64) *float64 { return &f }

func newService() (*Service, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewService(st, nil), st
}

func TestCreateResolvesCategory(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	product, err := svc.Create(ctx, Input{
		Title:        strPtr("Runner"),
		Price:        float(89.999),
		Stock:        intPtr(4),
		CategoryName: strPtr("Running"),
	})
	require.NoError(t, err)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, "Running", product.CategoryName)
	assert.Equal(t, 90.0, product.Price)
	assert.NotNil(t, product.Features)

	again, err := svc.Create(ctx, Input{Title: strPtr("Racer"), CategoryName: strPtr("Running")})
	require.NoError(t, err)
	assert.Equal(t, *product.CategoryID, *again.CategoryID)

	categories, err := st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCreateRejectsNegativeValues(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), Input{Title: strPtr("Runner"), Price: float(-1), Stock: intPtr(-2)})

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 2)
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	features := []string{"Breathable", "Lightweight"}

	created, err := svc.Create(ctx, Input{
		Title:       strPtr("Runner"),
		Description: strPtr("Fast"),
		Price:       float(50),
		Features:    &features,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Input{Price: float(60)})
	require.NoError(t, err)
	assert.Equal(t, "Runner", updated.Title)
	assert.Equal(t, "Fast", updated.Description)
	assert.Equal(t, 60.0, updated.Price)
	assert.Equal(t, []string{"Breathable", "Lightweight"}, []string(updated.Features))
}

func TestMissingAndEmptyIDs(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Get(ctx, " ")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	_, err = svc.Get(ctx, "nope")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = svc.Update(ctx, "nope", Input{Title: strPtr("x")})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	err = svc.Delete(ctx, "nope")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Product not found", appErr.Message)
}

func TestListPublishedOnly(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	published := true

	_, err := svc.Create(ctx, Input{Title: strPtr("Draft")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Title: strPtr("Live"), Published: &published})
	require.NoError(t, err)

	all, err := svc.List(ctx, store.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	live, err := svc.List(ctx, store.ProductFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "Live", live[0].Title)
}

func TestImportCreatesUpdatesAndSkips(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	existing, err := svc.Create(ctx, Input{Title: strPtr("Old"), Price: float(10)})
	require.NoError(t, err)

	result, err := svc.Import(ctx, [][]string{
		{existing.ID, "Renamed", "", "12.50", "3", "true", "", "A|B", "Running"},
		{"", "Brand new", "desc", "99", "1", "false", "/img.png", "", ""},
		{"", "", "", "5"},
		{"", "Bad price", "", "abc"},
		{"", "Bad stock", "", "5", "ten"},
		{"", "Bad flag", "", "5", "1", "maybe"},
		{"", "Sparse row", "", "5"},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 2, Updated: 1, Skipped: 4}, result)

	sparse, err := st.ListProducts(ctx, store.ProductFilter{Search: "Sparse row"})
	require.NoError(t, err)
	require.Len(t, sparse, 1)
	assert.Equal(t, 0, sparse[0].Stock)
	assert.False(t, sparse[0].Published)

	skipped, err := st.ListProducts(ctx, store.ProductFilter{Search: "Bad"})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	renamed, err := st.FindProduct(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Title)
	assert.Equal(t, 12.5, renamed.Price)
	assert.True(t, renamed.Published)
	assert.Equal(t, []string{"A", "B"}, []string(renamed.Features))
	assert.Equal(t, "Running", renamed.CategoryName)
}
