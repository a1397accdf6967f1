package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/domain"
)

func TestProductionService_MaterialsNeeded(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	need, err := f.production.MaterialsNeeded(ctx, "Tshirt", "XL", 10)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, need[domain.MaterialFabric], 1e-9)
	assert.InDelta(t, 16.0, need[domain.MaterialCotton], 1e-9)
	assert.InDelta(t, 8.0, need[domain.MaterialThread], 1e-9)
	assert.InDelta(t, 20.0, need[domain.MaterialPolyester], 1e-9)

	_, err = f.production.MaterialsNeeded(ctx, "Hat", "M", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownClothingType)
	var unknown *domain.UnknownClothingTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Hat", unknown.Type)

	_, err = f.production.MaterialsNeeded(ctx, "Tshirt", "M", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestProductionService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// Pants XL: fabric 2.4, cotton 1.9, thread 0.7, polyester 3.0 per garment
	available, err := f.production.CheckAvailability(ctx, "Pants", "XL", 1000)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		domain.MaterialFabric:    false,
		domain.MaterialCotton:    true,
		domain.MaterialThread:    true,
		domain.MaterialPolyester: false,
	}, available)
}

func TestProductionService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes every material", func(t *testing.T) {
		f := newFixture()

		need, err := f.production.Process(ctx, "Tshirt", "M", 10)
		require.NoError(t, err)
		assert.InDelta(t, 8.0, need[domain.MaterialCotton], 1e-9)

		fabric, err := f.store.Materials.GetStock(ctx, domain.MaterialFabric)
		require.NoError(t, err)
		assert.InDelta(t, 2190.0, fabric, 1e-9)
		cotton, err := f.store.Materials.GetStock(ctx, domain.MaterialCotton)
		require.NoError(t, err)
		assert.InDelta(t, 2192.0, cotton, 1e-9)
	})

	t.Run("all or nothing", func(t *testing.T) {
		f := newFixture()

		_, err := f.production.Process(ctx, "Pants", "XL", 1000)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		quantities, err := f.store.Materials.Quantities(ctx)
		require.NoError(t, err)
		for m, q := range quantities {
			assert.Equal(t, domain.DefaultInitialStock, q, m)
		}
	})
}
