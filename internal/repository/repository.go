// Package repository defines the persistence surface the services depend on.
// memory and postgres provide interchangeable implementations.
package repository

import (
	"context"

	"github.com/andresuchdata/stockflow/internal/domain"
)

// MaterialRepository stores raw materials and their on-hand quantity.
type MaterialRepository interface {
	Get(ctx context.Context, id string) (*domain.Material, error)
	List(ctx context.Context) ([]domain.Material, error)
	Upsert(ctx context.Context, m *domain.Material) error

	GetStock(ctx context.Context, id string) (float64, error)
	SetStock(ctx context.Context, id string, quantity float64) error
	// AdjustStock applies a signed delta and returns the new quantity. It
	// fails with domain.ErrInsufficientStock when the result would be negative.
	AdjustStock(ctx context.Context, id string, delta float64) (float64, error)
	Quantities(ctx context.Context) (map[string]float64, error)
}

// ClothingTypeRepository stores clothing-type material specifications.
type ClothingTypeRepository interface {
	Get(ctx context.Context, id string) (*domain.ClothingType, error)
	List(ctx context.Context) ([]domain.ClothingType, error)
	Upsert(ctx context.Context, ct *domain.ClothingType) error
	GetMaterialCoefficients(ctx context.Context, typeID, size string) (map[string]float64, error)
}

// OrderRepository stores customer orders.
type OrderRepository interface {
	Upsert(ctx context.Context, o *domain.CustomerOrder) error
	Get(ctx context.Context, id string) (*domain.CustomerOrder, error)
	List(ctx context.Context) ([]domain.CustomerOrder, error)
	ListByStatus(ctx context.Context, status string) ([]domain.CustomerOrder, error)
	// ListByCustomerName matches a case-insensitive substring, newest first.
	ListByCustomerName(ctx context.Context, name string) ([]domain.CustomerOrder, error)
	// ListByCustomerEmail matches the lower-cased address exactly, newest first.
	ListByCustomerEmail(ctx context.Context, email string) ([]domain.CustomerOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Store bundles the three repositories of one backend.
type Store struct {
	Materials     MaterialRepository
	ClothingTypes ClothingTypeRepository
	Orders        OrderRepository
}
