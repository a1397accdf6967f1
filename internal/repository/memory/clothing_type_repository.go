package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/repository"
)

// ClothingTypeRepository keeps clothing-type specifications in memory.
type ClothingTypeRepository struct {
	mu    sync.RWMutex
	types map[string]domain.ClothingType
}

// NewClothingTypeRepository returns a repository seeded with types. Types
// without per-size rows get them derived from their base coefficients.
func NewClothingTypeRepository(types ...domain.ClothingType) *ClothingTypeRepository {
	r := &ClothingTypeRepository{types: make(map[string]domain.ClothingType, len(types))}
	for _, ct := range types {
		r.store(ct)
	}
	return r
}

var _ repository.ClothingTypeRepository = (*ClothingTypeRepository)(nil)

func (r *ClothingTypeRepository) store(ct domain.ClothingType) {
	stored := repository.CloneClothingType(ct)
	if len(stored.Sizes) == 0 {
		materials.ExpandSizes(&stored, nil)
	}
	r.types[ct.ID] = stored
}

func (r *ClothingTypeRepository) Get(_ context.Context, id string) (*domain.ClothingType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("clothing type %q: %w", id, domain.ErrNotFound)
	}
	out := repository.CloneClothingType(ct)
	return &out, nil
}

func (r *ClothingTypeRepository) List(_ context.Context) ([]domain.ClothingType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ClothingType, 0, len(r.types))
	for _, ct := range r.types {
		out = append(out, repository.CloneClothingType(ct))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ClothingTypeRepository) Upsert(_ context.Context, ct *domain.ClothingType) error {
	if ct.ID == "" {
		return fmt.Errorf("clothing type id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store(*ct)
	return nil
}

func (r *ClothingTypeRepository) GetMaterialCoefficients(_ context.Context, typeID, size string) (map[string]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, ok := r.types[typeID]
	if !ok {
		return nil, fmt.Errorf("clothing type %q: %w", typeID, domain.ErrNotFound)
	}
	return repository.CoefficientsFor(&ct, size), nil
}
