package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/domain"
)

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.orders.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	created, err := f.orders.Create(ctx, &domain.CustomerOrder{
		Customer: domain.Customer{Name: "Ana Lima", Email: "Ana@Example.com"},
		Items:    []domain.OrderItem{{ClothingType: "Tshirt", Size: "M", Quantity: 10}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), created.CreatedAt)
	// 10 fabric × 7 + 8 cotton × 5.5 + 4 thread × 4.5 + 10 polyester × 10
	assert.Equal(t, "232.00", created.TotalValue.StringFixed(2))

	stored, err := f.orders.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TotalValue.String(), stored.TotalValue.String())

	byEmail, err := f.orders.ListByCustomerEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	byName, err := f.orders.ListByCustomerName(ctx, "lima")
	require.NoError(t, err)
	require.Len(t, byName, 1)
}

func TestOrderService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tests := []struct {
		name  string
		order domain.CustomerOrder
		want  error
	}{
		{
			name:  "missing customer",
			order: domain.CustomerOrder{Items: []domain.OrderItem{{ClothingType: "Tshirt", Size: "M", Quantity: 1}}},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "no items",
			order: domain.CustomerOrder{Customer: domain.Customer{Name: "Ana"}},
			want:  domain.ErrInvalidInput,
		},
		{
			name: "unknown status",
			order: domain.CustomerOrder{
				Customer: domain.Customer{Name: "Ana"},
				Items:    []domain.OrderItem{{ClothingType: "Tshirt", Size: "M", Quantity: 1}},
				Status:   "lost",
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "unknown clothing type",
			order: domain.CustomerOrder{
				Customer: domain.Customer{Name: "Ana"},
				Items:    []domain.OrderItem{{ClothingType: "Hat", Size: "M", Quantity: 1}},
			},
			want: domain.ErrUnknownClothingType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, &tt.order)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.orders.Create(ctx, &domain.CustomerOrder{
		Customer: domain.Customer{Name: "Rui"},
		Items:    []domain.OrderItem{{ClothingType: "Shorts", Size: "S", Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.orders.UpdateStatus(ctx, created.ID, "In Production"))

	inProduction, err := f.orders.ListByStatus(ctx, "in_production")
	require.NoError(t, err)
	require.Len(t, inProduction, 1)
	assert.Equal(t, created.ID, inProduction[0].ID)

	assert.ErrorIs(t, f.orders.UpdateStatus(ctx, created.ID, "lost"), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.orders.UpdateStatus(ctx, "missing", domain.OrderStatusShipped), domain.ErrNotFound)

	_, err = f.orders.ListByStatus(ctx, "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
