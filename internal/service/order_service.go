package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/repository"
)

// OrderService manages customer orders.
type OrderService struct {
	orders     repository.OrderRepository
	materials  repository.MaterialRepository
	production *ProductionService
	now        func() time.Time
}

func NewOrderService(orders repository.OrderRepository, ms repository.MaterialRepository, production *ProductionService) *OrderService {
	return &OrderService{orders: orders, materials: ms, production: production, now: time.Now}
}

// Create fills in the ID, creation time, status and total value when they
// are missing, then stores the order.
func (s *OrderService) Create(ctx context.Context, o *domain.CustomerOrder) (*domain.CustomerOrder, error) {
	if strings.TrimSpace(o.Customer.Name) == "" {
		return nil, fmt.Errorf("customer name is required: %w", domain.ErrInvalidInput)
	}
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("order has no items: %w", domain.ErrInvalidInput)
	}

	out := *o
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = s.now().UTC()
	}
	if out.Status == "" {
		out.Status = domain.OrderStatusPending
	} else {
		status, ok := domain.ParseOrderStatus(out.Status)
		if !ok {
			return nil, fmt.Errorf("order status %q: %w", out.Status, domain.ErrInvalidInput)
		}
		out.Status = status
	}

	if out.TotalValue.IsZero() {
		total, err := s.totalValue(ctx, out.Items)
		if err != nil {
			return nil, err
		}
		out.TotalValue = total
	}

	if err := s.orders.Upsert(ctx, &out); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	log.Info().
		Str("order_id", out.ID).
		Str("customer", out.Customer.Name).
		Int("items", len(out.Items)).
		Str("total", out.TotalValue.StringFixed(2)).
		Msg("orders: order created")
	return &out, nil
}

// totalValue prices every item at the current material cost.
func (s *OrderService) totalValue(ctx context.Context, items []domain.OrderItem) (decimal.Decimal, error) {
	ms, err := s.materials.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	prices := materials.PricesFromMaterials(ms)

	var need materials.Requirements
	for _, item := range items {
		req, err := s.production.MaterialsNeeded(ctx, item.ClothingType, item.Size, item.Quantity)
		if err != nil {
			return decimal.Zero, fmt.Errorf("item %s %s: %w", item.ClothingType, item.Size, err)
		}
		need = need.Add(req)
	}
	return prices.Cost(need).Round(2), nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.CustomerOrder, error) {
	return s.orders.Get(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]domain.CustomerOrder, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) ListByStatus(ctx context.Context, raw string) ([]domain.CustomerOrder, error) {
	status, ok := domain.ParseOrderStatus(raw)
	if !ok {
		return nil, fmt.Errorf("order status %q: %w", raw, domain.ErrInvalidInput)
	}
	return s.orders.ListByStatus(ctx, status)
}

func (s *OrderService) ListByCustomerName(ctx context.Context, name string) ([]domain.CustomerOrder, error) {
	return s.orders.ListByCustomerName(ctx, strings.TrimSpace(name))
}

func (s *OrderService) ListByCustomerEmail(ctx context.Context, email string) ([]domain.CustomerOrder, error) {
	return s.orders.ListByCustomerEmail(ctx, strings.TrimSpace(email))
}

// UpdateStatus moves an order to a new status.
func (s *OrderService) UpdateStatus(ctx context.Context, id, raw string) error {
	status, ok := domain.ParseOrderStatus(raw)
	if !ok {
		return fmt.Errorf("order status %q: %w", raw, domain.ErrInvalidInput)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	log.Info().Str("order_id", id).Str("status", status).Msg("orders: status updated")
	return nil
}
