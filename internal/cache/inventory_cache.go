package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/stockflow/internal/config"
)

const (
	keyPrefix           = "stockflow:"
	quantitiesKey       = keyPrefix + "materials:quantities"
	simulationKeyPrefix = keyPrefix + "simulation:"
	scanBatchSize       = 100
)

// InventoryCache caches material quantities and dry-run simulation results.
type InventoryCache interface {
	GetQuantities(ctx context.Context) (map[string]float64, bool, error)
	SetQuantities(ctx context.Context, quantities map[string]float64) error
	InvalidateQuantities(ctx context.Context) error

	GetSimulation(ctx context.Context, key string) ([]byte, bool, error)
	SetSimulation(ctx context.Context, key string, payload []byte) error

	InvalidateAll(ctx context.Context) error
}

type redisInventoryCache struct {
	client *redis.Client
	ttl    ttls
}

type noopInventoryCache struct{}

// NewInventoryCache returns a redis-backed cache, or a no-op one when the
// cache is disabled.
func NewInventoryCache(cfg config.CacheConfig) (InventoryCache, error) {
	if !cfg.Enabled {
		return &noopInventoryCache{}, nil
	}

	client, err := connect(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return &redisInventoryCache{
		client: client,
		ttl:    ttlsFor(cfg),
	}, nil
}

func NewNoopInventoryCache() InventoryCache {
	return &noopInventoryCache{}
}

func (c *redisInventoryCache) GetQuantities(ctx context.Context) (map[string]float64, bool, error) {
	payload, err := c.client.Get(ctx, quantitiesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var quantities map[string]float64
	if err := json.Unmarshal(payload, &quantities); err != nil {
		return nil, false, fmt.Errorf("decode quantities cache: %w", err)
	}
	return quantities, true, nil
}

func (c *redisInventoryCache) SetQuantities(ctx context.Context, quantities map[string]float64) error {
	payload, err := json.Marshal(quantities)
	if err != nil {
		return fmt.Errorf("encode quantities cache: %w", err)
	}
	if err := c.client.Set(ctx, quantitiesKey, payload, c.ttl.quantities).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisInventoryCache) InvalidateQuantities(ctx context.Context) error {
	return c.client.Del(ctx, quantitiesKey).Err()
}

func (c *redisInventoryCache) GetSimulation(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, simulationKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return payload, true, nil
}

func (c *redisInventoryCache) SetSimulation(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, simulationKeyPrefix+key, payload, c.ttl.simulations).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisInventoryCache) InvalidateAll(ctx context.Context) error {
	return purge(ctx, c.client, keyPrefix)
}

func (n *noopInventoryCache) GetQuantities(ctx context.Context) (map[string]float64, bool, error) {
	return nil, false, nil
}

func (n *noopInventoryCache) SetQuantities(ctx context.Context, quantities map[string]float64) error {
	return nil
}

func (n *noopInventoryCache) InvalidateQuantities(ctx context.Context) error {
	return nil
}

func (n *noopInventoryCache) GetSimulation(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *noopInventoryCache) SetSimulation(ctx context.Context, key string, payload []byte) error {
	return nil
}

func (n *noopInventoryCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// SimulationKey hashes everything a dry run depends on: the input lines, the
// starting stock and a settings fingerprint.
func SimulationKey(lines []string, initial map[string]float64, settings string) string {
	parts := make([]string, 0, len(initial)+2)

	materials := make([]string, 0, len(initial))
	for m := range initial {
		materials = append(materials, m)
	}
	sort.Strings(materials)
	for _, m := range materials {
		parts = append(parts, fmt.Sprintf("stock:%s=%g", m, initial[m]))
	}
	parts = append(parts, "settings="+strings.TrimSpace(settings))
	parts = append(parts, "lines="+strings.Join(lines, "\n"))

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
