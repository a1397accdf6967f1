package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/domain"
)

func TestMaterialRepository_Stock(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialRepository(domain.DefaultMaterials()...)

	qty, err := repo.GetStock(ctx, domain.MaterialFabric)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInitialStock, qty)

	require.NoError(t, repo.SetStock(ctx, domain.MaterialFabric, 12.5))
	qty, err = repo.GetStock(ctx, domain.MaterialFabric)
	require.NoError(t, err)
	assert.Equal(t, 12.5, qty)

	_, err = repo.GetStock(ctx, "unobtainium")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.SetStock(ctx, "unobtainium", 1), domain.ErrNotFound)
}

func TestMaterialRepository_AdjustStock(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialRepository(domain.Material{ID: "thread", QuantityAvailable: 10})

	next, err := repo.AdjustStock(ctx, "thread", -4)
	require.NoError(t, err)
	assert.Equal(t, 6.0, next)

	// GIVEN 6 on hand WHEN 7 are taken THEN the adjustment is refused
	_, err = repo.AdjustStock(ctx, "thread", -7)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	qty, _ := repo.GetStock(ctx, "thread")
	assert.Equal(t, 6.0, qty)

	_, err = repo.AdjustStock(ctx, "wool", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaterialRepository_ListAndQuantities(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialRepository(domain.DefaultMaterials()...)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, domain.MaterialCotton, list[0].ID)

	quantities, err := repo.Quantities(ctx)
	require.NoError(t, err)
	assert.Len(t, quantities, 4)
	assert.Equal(t, domain.DefaultInitialStock, quantities[domain.MaterialPolyester])
}

func TestClothingTypeRepository_Coefficients(t *testing.T) {
	ctx := context.Background()
	repo := NewClothingTypeRepository(domain.DefaultClothingTypes()...)

	row, err := repo.GetMaterialCoefficients(ctx, "Tshirt", "L")
	require.NoError(t, err)
	assert.Equal(t, 1.5, row[domain.MaterialFabric])

	// unknown size falls back to the base row
	row, err = repo.GetMaterialCoefficients(ctx, "Tshirt", "XXXL")
	require.NoError(t, err)
	assert.Equal(t, 1.0, row[domain.MaterialFabric])

	_, err = repo.GetMaterialCoefficients(ctx, "Kimono", "M")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClothingTypeRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewClothingTypeRepository(domain.DefaultClothingTypes()...)

	ct, err := repo.Get(ctx, "Pants")
	require.NoError(t, err)
	ct.BaseMaterials[domain.MaterialFabric] = 0
	ct.Sizes["M"][domain.MaterialFabric] = 0

	again, err := repo.Get(ctx, "Pants")
	require.NoError(t, err)
	assert.Equal(t, 1.2, again.BaseMaterials[domain.MaterialFabric])
	assert.Equal(t, 1.2, again.Sizes["M"][domain.MaterialFabric])
}

func TestOrderRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	orders := []domain.CustomerOrder{
		{ID: "a", CreatedAt: base, Customer: domain.Customer{Name: "Ana Sousa", Email: "ana@example.com"}, Status: domain.OrderStatusPending},
		{ID: "b", CreatedAt: base.Add(time.Hour), Customer: domain.Customer{Name: "Rui Santos", Email: "rui@example.com"}, Status: domain.OrderStatusConfirmed},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour), Customer: domain.Customer{Name: "ANA LIMA", Email: "Ana@Example.com"}, Status: domain.OrderStatusPending},
	}
	for i := range orders {
		require.NoError(t, repo.Upsert(ctx, &orders[i]))
	}

	byName, err := repo.ListByCustomerName(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "c", byName[0].ID, "newest first")

	byEmail, err := repo.ListByCustomerEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	pending, err := repo.ListByStatus(ctx, domain.OrderStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, repo.UpdateStatus(ctx, "a", domain.OrderStatusShipped))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "zzz", domain.OrderStatusShipped), domain.ErrNotFound)
	_, err = repo.Get(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewStore_SeedsDefaults(t *testing.T) {
	store := NewStore()

	types, err := store.ClothingTypes.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 4)
}
