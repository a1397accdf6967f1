package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockflow/internal/cache"
	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/metrics"
	"github.com/andresuchdata/stockflow/internal/replenishment"
	"github.com/andresuchdata/stockflow/internal/repository"
	"github.com/rs/zerolog/log"
)

type InventoryService struct {
	repo    repository.MaterialRepository
	cache   cache.InventoryCache
	policy  replenishment.Policy
	metrics *metrics.Metrics
}

func NewInventoryService(repo repository.MaterialRepository, cacheImpl cache.InventoryCache, policy replenishment.Policy, m *metrics.Metrics) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopInventoryCache()
	}
	return &InventoryService{repo: repo, cache: cacheImpl, policy: policy, metrics: m}
}

func (s *InventoryService) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	return s.repo.List(ctx)
}

func (s *InventoryService) GetMaterial(ctx context.Context, id string) (*domain.Material, error) {
	return s.repo.Get(ctx, id)
}

func (s *InventoryService) GetQuantity(ctx context.Context, id string) (float64, error) {
	return s.repo.GetStock(ctx, id)
}

// GetQuantities returns every material's on-hand quantity, served from the
// cache when possible.
func (s *InventoryService) GetQuantities(ctx context.Context) (map[string]float64, error) {
	if quantities, ok, err := s.cache.GetQuantities(ctx); err == nil && ok {
		return quantities, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get quantities failed")
	}

	quantities, err := s.repo.Quantities(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetQuantities(ctx, quantities); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set quantities failed")
	}

	return quantities, nil
}

// AdjustStock applies a signed delta and returns the new quantity.
func (s *InventoryService) AdjustStock(ctx context.Context, adj domain.StockAdjustment) (float64, error) {
	if adj.MaterialID == "" {
		return 0, fmt.Errorf("material_id is required: %w", domain.ErrInvalidInput)
	}

	qty, err := s.repo.AdjustStock(ctx, adj.MaterialID, adj.Quantity)
	switch {
	case err == nil:
		s.metrics.ObserveAdjustment("ok")
	case errors.Is(err, domain.ErrInsufficientStock):
		s.metrics.ObserveAdjustment("insufficient")
		return qty, err
	case errors.Is(err, domain.ErrNotFound):
		s.metrics.ObserveAdjustment("not_found")
		return 0, err
	default:
		s.metrics.ObserveAdjustment("error")
		return 0, err
	}

	s.Invalidate(ctx)

	log.Info().
		Str("material", adj.MaterialID).
		Float64("delta", adj.Quantity).
		Float64("quantity", qty).
		Msg("inventory: stock adjusted")
	return qty, nil
}

// Health assesses every material against the replenishment policy.
func (s *InventoryService) Health(ctx context.Context) ([]replenishment.Assessment, error) {
	quantities, err := s.GetQuantities(ctx)
	if err != nil {
		return nil, err
	}
	ms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(ms))
	for _, m := range ms {
		keys = append(keys, m.ID)
	}
	return s.policy.AssessAll(quantities, keys), nil
}

// Invalidate drops cached quantities after a write.
func (s *InventoryService) Invalidate(ctx context.Context) {
	if err := s.cache.InvalidateQuantities(ctx); err != nil {
		log.Warn().Err(err).Msg("inventory: cache invalidate failed")
	}
}
