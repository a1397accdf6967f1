package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/domain"
)

func TestClothingTypeRow_ToDomain(t *testing.T) {
	row := clothingTypeRow{
		ID:            "Tshirt",
		Name:          "T-shirt",
		BaseMaterials: []byte(`{"fabric": 1.0, "thread": 0.4}`),
		Sizes:         []byte(`{"L": {"fabric": 1.5}}`),
	}

	ct, err := row.toDomain()
	require.NoError(t, err)

	assert.Equal(t, 0.4, ct.BaseMaterials["thread"])
	assert.Equal(t, 1.5, ct.Sizes["L"]["fabric"])
}

func TestClothingTypeRow_BadJSON(t *testing.T) {
	_, err := clothingTypeRow{ID: "x", BaseMaterials: []byte(`{`), Sizes: []byte(`{}`)}.toDomain()

	assert.Error(t, err)
}

func TestOrderRow_ToDomain(t *testing.T) {
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	row := orderRow{
		ID:         "o-1",
		CreatedAt:  created,
		Customer:   []byte(`{"name": "Ana", "email": "ana@example.com"}`),
		Items:      []byte(`[{"clothing_type": "Tshirt", "size": "M", "quantity": 3}]`),
		Status:     domain.OrderStatusPending,
		TotalValue: decimal.RequireFromString("42.10"),
	}

	o, err := row.toDomain()
	require.NoError(t, err)

	assert.Equal(t, "Ana", o.Customer.Name)
	assert.Equal(t, []domain.OrderItem{{ClothingType: "Tshirt", Size: "M", Quantity: 3}}, o.Items)
	assert.True(t, o.TotalValue.Equal(decimal.RequireFromString("42.1")))
	assert.Equal(t, created, o.CreatedAt)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
	assert.Equal(t, "ana", escapeLike("ana"))
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS materials")
	assert.Contains(t, schema, "customer_orders")
}
