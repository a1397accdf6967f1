package service

import (
	"context"
	"maps"
	"sync"

	"github.com/andresuchdata/stockflow/internal/cache"
	"github.com/andresuchdata/stockflow/internal/metrics"
	"github.com/andresuchdata/stockflow/internal/replenishment"
	"github.com/andresuchdata/stockflow/internal/repository"
	"github.com/andresuchdata/stockflow/internal/repository/memory"
)

// mapCache is an in-process InventoryCache that counts its calls.
type mapCache struct {
	mu            sync.Mutex
	quantities    map[string]float64
	simulations   map[string][]byte
	quantityHits  int
	simulationHit int
	invalidations int
}

func newMapCache() *mapCache {
	return &mapCache{simulations: make(map[string][]byte)}
}

var _ cache.InventoryCache = (*mapCache)(nil)

func (c *mapCache) GetQuantities(context.Context) (map[string]float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quantities == nil {
		return nil, false, nil
	}
	c.quantityHits++
	return maps.Clone(c.quantities), true, nil
}

func (c *mapCache) SetQuantities(_ context.Context, q map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quantities = maps.Clone(q)
	return nil
}

func (c *mapCache) InvalidateQuantities(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quantities = nil
	c.invalidations++
	return nil
}

func (c *mapCache) GetSimulation(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.simulations[key]
	if ok {
		c.simulationHit++
	}
	return payload, ok, nil
}

func (c *mapCache) SetSimulation(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.simulations[key] = payload
	return nil
}

func (c *mapCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quantities = nil
	c.simulations = make(map[string][]byte)
	c.invalidations++
	return nil
}

type fixture struct {
	store      *repository.Store
	cache      *mapCache
	metrics    *metrics.Metrics
	inventory  *InventoryService
	production *ProductionService
	orders     *OrderService
}

func newFixture() *fixture {
	f := &fixture{
		store:   memory.NewStore(),
		cache:   newMapCache(),
		metrics: metrics.New(),
	}
	f.inventory = NewInventoryService(f.store.Materials, f.cache, replenishment.DefaultPolicy(), f.metrics)
	f.production = NewProductionService(f.store.ClothingTypes, f.store.Materials, f.inventory)
	f.orders = NewOrderService(f.store.Orders, f.store.Materials, f.production)
	return f
}
