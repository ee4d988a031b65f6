package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecocart/model"
)

func TestListProductsFallsBack(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, model.FallbackProducts(), f.catalog.ListProducts(ctx))
	})

	t.Run("failing store", func(t *testing.T) {
		catalog := NewCatalogService(brokenProducts{}, zap.NewNop())
		products := catalog.ListProducts(ctx)
		require.Len(t, products, 8)
		assert.Equal(t, model.FallbackProducts(), products)
	})

	t.Run("stored products win", func(t *testing.T) {
		f := newFixture(t)
		stored := []model.Product{{ID: "p1", Name: "Oat Milk", Price: 3.49, Category: "Dairy"}}
		require.NoError(t, f.repo.SaveProducts(ctx, stored))
		assert.Equal(t, stored, f.catalog.ListProducts(ctx))
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, ok := f.catalog.GetProduct(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, "1", p.ID)

	_, ok = f.catalog.GetProduct(ctx, "does-not-exist")
	assert.False(t, ok)

	_, ok = f.catalog.GetProduct(ctx, "")
	assert.False(t, ok)

	broken := NewCatalogService(brokenProducts{}, zap.NewNop())
	p, ok = broken.GetProduct(ctx, "3")
	require.True(t, ok)
	assert.Equal(t, "3", p.ID)
}

func TestSeedProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n, err := f.catalog.SeedProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	stored, err := f.repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 8)

	_, err = NewCatalogService(brokenProducts{}, zap.NewNop()).SeedProducts(ctx)
	assert.ErrorIs(t, err, errStoreDown)
}
