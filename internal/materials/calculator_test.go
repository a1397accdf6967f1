package materials

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/domain"
)

func TestCalculate_AppliesSizeMultiplier(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())

	req, err := calc.Calculate(domain.Order{Quantity: 10, ClothingType: "Tshirt", Size: "L"})
	require.NoError(t, err)

	assert.Equal(t, 15.0, req[domain.MaterialFabric])
}

func TestCalculate_DefaultTshirtOrder(t *testing.T) {
	calc := NewCalculator(nil)

	req, err := calc.Calculate(domain.Order{Quantity: 1000, ClothingType: "Tshirt", Size: "M"})
	require.NoError(t, err)

	assert.InDelta(t, 1000, req[domain.MaterialFabric], 1e-9)
	assert.InDelta(t, 800, req[domain.MaterialCotton], 1e-9)
	assert.InDelta(t, 400, req[domain.MaterialThread], 1e-9)
	assert.InDelta(t, 1000, req[domain.MaterialPolyester], 1e-9)
}

func TestCalculate_IsLinearInQuantity(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())

	for _, typ := range []string{"Tshirt", "Shorts", "Sweater", "Pants"} {
		for _, size := range domain.Sizes {
			single, err := calc.CalculateFor(typ, size, 37)
			require.NoError(t, err)
			double, err := calc.CalculateFor(typ, size, 74)
			require.NoError(t, err)

			assert.Equal(t, single.Scale(2), double, "%s %s", typ, size)
		}
	}
}

func TestCalculate_UnknownSizeFallsBackToOne(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())

	unknown, err := calc.CalculateFor("Tshirt", "XXL", 10)
	require.NoError(t, err)
	medium, err := calc.CalculateFor("Tshirt", "M", 10)
	require.NoError(t, err)

	assert.Equal(t, medium, unknown)
}

func TestCalculate_UnknownClothingType(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())

	_, err := calc.Calculate(domain.Order{Quantity: 1, ClothingType: "Kimono", Size: "M"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownClothingType))
	var typed *domain.UnknownClothingTypeError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "Kimono", typed.Type)
}

func TestAggregate_SumsPointwise(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())

	total, err := calc.Aggregate([]domain.Order{
		{Quantity: 10, ClothingType: "Tshirt", Size: "M"},
		{Quantity: 10, ClothingType: "Tshirt", Size: "XL"},
	})
	require.NoError(t, err)

	assert.InDelta(t, 30, total[domain.MaterialFabric], 1e-9)
	assert.InDelta(t, 12, total[domain.MaterialThread], 1e-9)
}

func TestAggregate_EmptyDayIsZero(t *testing.T) {
	total, err := NewCalculator(nil).Aggregate(nil)

	require.NoError(t, err)
	assert.Empty(t, total)
}

func TestAggregate_PropagatesUnknownType(t *testing.T) {
	_, err := NewCalculator(nil).Aggregate([]domain.Order{
		{Quantity: 1, ClothingType: "Tshirt", Size: "M"},
		{Quantity: 1, ClothingType: "Cape", Size: "M"},
	})

	assert.ErrorIs(t, err, domain.ErrUnknownClothingType)
}

func TestRequirements_AddIsMonoid(t *testing.T) {
	a := Requirements{"fabric": 1, "cotton": 2}
	b := Requirements{"fabric": 3, "thread": 4}

	assert.Equal(t, a, a.Add(nil))
	assert.Equal(t, a, Requirements(nil).Add(a))
	assert.Equal(t, Requirements{"fabric": 4, "cotton": 2, "thread": 4}, a.Add(b))
	assert.Equal(t, a.Add(b), b.Add(a))
	// inputs untouched
	assert.Equal(t, Requirements{"fabric": 1, "cotton": 2}, a)
}

func TestCatalog_IsolatedFromSource(t *testing.T) {
	types := domain.DefaultClothingTypes()
	catalog := NewCatalog(types, nil)

	types[0].BaseMaterials[domain.MaterialFabric] = 99
	base, err := catalog.Base("Tshirt")
	require.NoError(t, err)
	base[domain.MaterialFabric] = 42

	again, err := catalog.Base("Tshirt")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[domain.MaterialFabric])
}

func TestCatalog_CustomCoefficientSet(t *testing.T) {
	catalog := NewCatalog([]domain.ClothingType{
		{ID: "Scarf", BaseMaterials: map[string]float64{"wool": 0.25}},
	}, SizeMultipliers{"ONE": 1})

	req, err := NewCalculator(catalog).CalculateFor("Scarf", "ONE", 8)
	require.NoError(t, err)

	assert.Equal(t, Requirements{"wool": 2}, req)
	assert.Equal(t, []string{"Scarf"}, catalog.Types())
}

func TestExpandSizes(t *testing.T) {
	ct := domain.DefaultClothingTypes()[0]

	ExpandSizes(&ct, nil)

	require.Len(t, ct.Sizes, 5)
	assert.Equal(t, 0.5, ct.Sizes["XS"][domain.MaterialFabric])
	assert.Equal(t, 2.0, ct.Sizes["XL"][domain.MaterialFabric])
}

func TestPriceTable_Cost(t *testing.T) {
	prices := PricesFromMaterials(domain.DefaultMaterials())

	cost := prices.Cost(Requirements{
		domain.MaterialFabric: 10,
		domain.MaterialThread: 2,
		"unobtainium":         5,
	})

	assert.True(t, decimal.RequireFromString("79").Equal(cost), "got %s", cost)
}
