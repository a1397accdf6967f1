// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sizes lists the garment sizes in catalogue order.
var Sizes = []string{"XS", "S", "M", "L", "XL"}

// Order is one parsed order line entry: quantity of a clothing type in a size.
type Order struct {
	Quantity     int    `json:"quantity"`
	ClothingType string `json:"clothing_type"`
	Size         string `json:"size"`
}

// Material is a raw material held in stock
type Material struct {
	ID                string          `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	QuantityAvailable float64         `json:"quantity_available" db:"quantity_available"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit" db:"price_per_unit"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// ClothingType describes how much of each material one garment consumes.
// BaseMaterials holds the M-size coefficients; Sizes holds the per-size
// table derived from them.
type ClothingType struct {
	ID                    string                        `json:"id" db:"id"`
	Name                  string                        `json:"name" db:"name"`
	BaseMaterials         map[string]float64            `json:"base_materials" db:"-"`
	Sizes                 map[string]map[string]float64 `json:"sizes" db:"-"`
	ProductionTimeMinutes int                           `json:"production_time_minutes" db:"production_time_minutes"`
}

// Customer identifies who placed a customer order
type Customer struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItem is one line of a customer order
type OrderItem struct {
	ClothingType string `json:"clothing_type" binding:"required"`
	Size         string `json:"size" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
}

// CustomerOrder represents an order placed by a customer
type CustomerOrder struct {
	ID               string          `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	Customer         Customer        `json:"customer" binding:"required"`
	Items            []OrderItem     `json:"items" binding:"required,min=1,dive"`
	Status           string          `json:"status"`
	TotalValue       decimal.Decimal `json:"total_value"`
	DeliveryDeadline *time.Time      `json:"delivery_deadline,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// StockAdjustment is a signed change applied to one material's stock
type StockAdjustment struct {
	MaterialID string  `json:"material_id" binding:"required"`
	Quantity   float64 `json:"quantity"`
}
