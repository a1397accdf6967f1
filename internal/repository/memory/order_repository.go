package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/repository"
)

// OrderRepository keeps customer orders in memory.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.CustomerOrder
}

// NewOrderRepository returns an empty order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.CustomerOrder)}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func cloneOrder(o domain.CustomerOrder) domain.CustomerOrder {
	out := o
	out.Items = append([]domain.OrderItem(nil), o.Items...)
	if o.DeliveryDeadline != nil {
		d := *o.DeliveryDeadline
		out.DeliveryDeadline = &d
	}
	return out
}

func (r *OrderRepository) Upsert(_ context.Context, o *domain.CustomerOrder) error {
	if o.ID == "" {
		return fmt.Errorf("order id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (*domain.CustomerOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	}
	out := cloneOrder(o)
	return &out, nil
}

// filter returns matching orders newest first.
func (r *OrderRepository) filter(keep func(domain.CustomerOrder) bool) []domain.CustomerOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CustomerOrder, 0)
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *OrderRepository) List(_ context.Context) ([]domain.CustomerOrder, error) {
	return r.filter(func(domain.CustomerOrder) bool { return true }), nil
}

func (r *OrderRepository) ListByStatus(_ context.Context, status string) ([]domain.CustomerOrder, error) {
	return r.filter(func(o domain.CustomerOrder) bool { return o.Status == status }), nil
}

func (r *OrderRepository) ListByCustomerName(_ context.Context, name string) ([]domain.CustomerOrder, error) {
	needle := strings.ToLower(name)
	return r.filter(func(o domain.CustomerOrder) bool {
		return strings.Contains(strings.ToLower(o.Customer.Name), needle)
	}), nil
}

func (r *OrderRepository) ListByCustomerEmail(_ context.Context, email string) ([]domain.CustomerOrder, error) {
	needle := strings.ToLower(email)
	return r.filter(func(o domain.CustomerOrder) bool {
		return strings.ToLower(o.Customer.Email) == needle
	}), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	}
	o.Status = status
	r.orders[id] = o
	return nil
}
