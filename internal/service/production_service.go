package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/repository"
)

// ProductionService costs and books garment production against stock.
type ProductionService struct {
	types     repository.ClothingTypeRepository
	materials repository.MaterialRepository
	inventory *InventoryService

	// serialises check-then-consume
	mu sync.Mutex
}

func NewProductionService(types repository.ClothingTypeRepository, ms repository.MaterialRepository, inventory *InventoryService) *ProductionService {
	return &ProductionService{types: types, materials: ms, inventory: inventory}
}

// MaterialsNeeded returns the materials required for quantity garments.
func (s *ProductionService) MaterialsNeeded(ctx context.Context, typeID, size string, quantity int) (materials.Requirements, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	coefficients, err := s.types.GetMaterialCoefficients(ctx, typeID, size)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.UnknownClothingTypeError{Type: typeID}
	}
	if err != nil {
		return nil, err
	}
	return materials.Requirements(coefficients).Scale(float64(quantity)), nil
}

// CheckAvailability reports, per required material, whether stock covers it.
func (s *ProductionService) CheckAvailability(ctx context.Context, typeID, size string, quantity int) (map[string]bool, error) {
	need, err := s.MaterialsNeeded(ctx, typeID, size, quantity)
	if err != nil {
		return nil, err
	}
	return s.availability(ctx, need)
}

func (s *ProductionService) availability(ctx context.Context, need materials.Requirements) (map[string]bool, error) {
	onHand, err := s.materials.Quantities(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(need))
	for _, m := range need.Keys() {
		have, ok := onHand[m]
		out[m] = ok && have >= need[m]
	}
	return out, nil
}

// Process consumes the materials for an order only if every one of them is
// available; otherwise nothing changes and ErrInsufficientStock is returned.
func (s *ProductionService) Process(ctx context.Context, typeID, size string, quantity int) (materials.Requirements, error) {
	need, err := s.MaterialsNeeded(ctx, typeID, size, quantity)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.availability(ctx, need)
	if err != nil {
		return nil, err
	}
	for _, m := range need.Keys() {
		if !available[m] {
			return nil, fmt.Errorf("producing %d %s %s needs %.2f %s: %w",
				quantity, typeID, size, need[m], m, domain.ErrInsufficientStock)
		}
	}

	applied := make([]string, 0, len(need))
	for _, m := range need.Keys() {
		if _, err := s.materials.AdjustStock(ctx, m, -need[m]); err != nil {
			s.rollback(ctx, need, applied)
			return nil, fmt.Errorf("consume %s: %w", m, err)
		}
		applied = append(applied, m)
	}
	if s.inventory != nil {
		s.inventory.Invalidate(ctx)
	}

	log.Info().
		Str("clothing_type", typeID).
		Str("size", size).
		Int("quantity", quantity).
		Msg("production: order processed")
	return need, nil
}

func (s *ProductionService) rollback(ctx context.Context, need materials.Requirements, applied []string) {
	for _, m := range applied {
		if _, err := s.materials.AdjustStock(ctx, m, need[m]); err != nil {
			log.Error().Err(err).Str("material", m).Msg("production: rollback failed")
		}
	}
}
