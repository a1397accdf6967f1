package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/repository"
)

// MaterialRepository keeps materials in a map guarded by a RWMutex.
type MaterialRepository struct {
	mu        sync.RWMutex
	materials map[string]domain.Material
	now       func() time.Time
}

// NewMaterialRepository returns a repository seeded with ms.
func NewMaterialRepository(ms ...domain.Material) *MaterialRepository {
	r := &MaterialRepository{
		materials: make(map[string]domain.Material, len(ms)),
		now:       time.Now,
	}
	for _, m := range ms {
		r.materials[m.ID] = m
	}
	return r
}

var _ repository.MaterialRepository = (*MaterialRepository)(nil)

func (r *MaterialRepository) Get(_ context.Context, id string) (*domain.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.materials[id]
	if !ok {
		return nil, fmt.Errorf("material %q: %w", id, domain.ErrNotFound)
	}
	return &m, nil
}

func (r *MaterialRepository) List(_ context.Context) ([]domain.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MaterialRepository) Upsert(_ context.Context, m *domain.Material) error {
	if m.ID == "" {
		return fmt.Errorf("material id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *m
	stored.UpdatedAt = r.now()
	r.materials[m.ID] = stored
	m.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MaterialRepository) GetStock(ctx context.Context, id string) (float64, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return m.QuantityAvailable, nil
}

func (r *MaterialRepository) SetStock(_ context.Context, id string, quantity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.materials[id]
	if !ok {
		return fmt.Errorf("material %q: %w", id, domain.ErrNotFound)
	}
	m.QuantityAvailable = quantity
	m.UpdatedAt = r.now()
	r.materials[id] = m
	return nil
}

func (r *MaterialRepository) AdjustStock(_ context.Context, id string, delta float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.materials[id]
	if !ok {
		return 0, fmt.Errorf("material %q: %w", id, domain.ErrNotFound)
	}
	next := m.QuantityAvailable + delta
	if next < 0 {
		return m.QuantityAvailable, fmt.Errorf("material %q has %.2f, adjustment %.2f: %w",
			id, m.QuantityAvailable, delta, domain.ErrInsufficientStock)
	}
	m.QuantityAvailable = next
	m.UpdatedAt = r.now()
	r.materials[id] = m
	return next, nil
}

func (r *MaterialRepository) Quantities(_ context.Context) (map[string]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]float64, len(r.materials))
	for id, m := range r.materials {
		out[id] = m.QuantityAvailable
	}
	return out, nil
}
