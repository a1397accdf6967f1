package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockflow/internal/cache"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/metrics"
	"github.com/andresuchdata/stockflow/internal/orderparser"
	"github.com/andresuchdata/stockflow/internal/replenishment"
	"github.com/andresuchdata/stockflow/internal/repository"
	"github.com/andresuchdata/stockflow/internal/simulation"
)

// SimulationRequest is one run over a list of order lines. A nil
// InitialStock starts from the stored quantities. Commit writes the final
// ledger back to the material repository.
type SimulationRequest struct {
	Lines        []string           `json:"lines"`
	InitialStock map[string]float64 `json:"initial_stock,omitempty"`
	Commit       bool               `json:"commit"`
}

// SimulationService runs simulations against the stored catalogue. Runs are
// serialised.
type SimulationService struct {
	store     *repository.Store
	inventory *InventoryService
	cache     cache.InventoryCache
	metrics   *metrics.Metrics
	cfg       simulation.Config
	policy    replenishment.Policy

	mu          sync.Mutex
	calc        *materials.Calculator
	catalogTag  string
	multipliers materials.SizeMultipliers
}

func NewSimulationService(store *repository.Store, inventory *InventoryService, cacheImpl cache.InventoryCache, m *metrics.Metrics, cfg simulation.Config, policy replenishment.Policy) (*SimulationService, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid replenishment policy: %w", err)
	}
	if _, err := simulation.ParseConsumptionPolicy(string(cfg.Consumption)); err != nil {
		return nil, err
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopInventoryCache()
	}
	return &SimulationService{
		store:     store,
		inventory: inventory,
		cache:     cacheImpl,
		metrics:   m,
		cfg:       cfg,
		policy:    policy,
	}, nil
}

// Policy returns the replenishment constants runs use.
func (s *SimulationService) Policy() replenishment.Policy {
	return s.policy
}

// calculator loads the clothing types once and reuses the catalogue for
// later runs. Callers hold s.mu.
func (s *SimulationService) calculator(ctx context.Context) (*materials.Calculator, error) {
	if s.calc != nil {
		return s.calc, nil
	}
	types, err := s.store.ClothingTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clothing types: %w", err)
	}
	s.calc = materials.NewCalculator(materials.NewCatalog(types, s.multipliers))
	s.catalogTag = catalogTag(s.calc.Catalog())
	return s.calc, nil
}

// catalogTag summarises every coefficient and size multiplier so cached runs
// never outlive the catalogue they were computed with.
func catalogTag(c *materials.Catalog) string {
	var b strings.Builder
	for _, typ := range c.Types() {
		base, _ := c.Base(typ)
		b.WriteString(typ)
		for _, m := range sortedKeys(base) {
			fmt.Fprintf(&b, ",%s=%g", m, base[m])
		}
		b.WriteByte(';')
	}
	mult := c.Multipliers()
	for _, size := range sortedKeys(mult) {
		fmt.Fprintf(&b, "%s=%g,", size, mult[size])
	}
	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetSizeMultipliers replaces the size table used from the next catalogue
// load on; nil means the default table.
func (s *SimulationService) SetSizeMultipliers(m materials.SizeMultipliers) {
	s.mu.Lock()
	s.multipliers = m
	s.calc = nil
	s.mu.Unlock()
}

// ReloadCatalog forgets the cached catalogue so the next run reads it again.
func (s *SimulationService) ReloadCatalog() {
	s.mu.Lock()
	s.calc = nil
	s.mu.Unlock()
}

// fingerprint is only meaningful after calculator has loaded the catalogue.
func (s *SimulationService) fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%t|%g|%g|%g|%d|%g",
		s.catalogTag, s.cfg.Consumption, s.cfg.TraceLevel, s.cfg.Drain,
		s.policy.AnnualDemand, s.policy.OrderCost, s.policy.HoldingCost,
		s.policy.LeadTimeDays, s.policy.SafetyStock)
}

// Run simulates req.Lines, one line per day.
func (s *SimulationService) Run(ctx context.Context, req SimulationRequest) (*simulation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	initial := req.InitialStock
	if initial == nil {
		quantities, err := s.store.Materials.Quantities(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stock: %w", err)
		}
		initial = quantities
	}

	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}

	key := cache.SimulationKey(req.Lines, initial, s.fingerprint())
	if !req.Commit {
		if payload, ok, err := s.cache.GetSimulation(ctx, key); err == nil && ok {
			var cached simulation.Result
			if err := json.Unmarshal(payload, &cached); err == nil {
				log.Debug().Str("key", key).Msg("simulation: served from cache")
				return &cached, nil
			}
		} else if err != nil {
			log.Warn().Err(err).Msg("simulation: cache get failed")
		}
	}

	sim, err := simulation.New(s.cfg, calc, s.policy, initial)
	if err != nil {
		return nil, err
	}

	result, err := sim.Run(ctx, orderparser.ParseLines(req.Lines))
	if err != nil {
		s.metrics.ObserveRun("error", 0, nil)
		return nil, err
	}
	s.metrics.ObserveRun("ok", result.DaysRun, reorderCounts(result))

	if req.Commit {
		if err := s.commit(ctx, result.FinalStock); err != nil {
			return nil, err
		}
		return result, nil
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.SetSimulation(ctx, key, payload); err != nil {
			log.Warn().Err(err).Msg("simulation: cache set failed")
		}
	}
	return result, nil
}

// commit writes the final ledger all or nothing: every material must already
// be stored, and a failed write restores the ones written before it.
func (s *SimulationService) commit(ctx context.Context, final simulation.Ledger) error {
	keys := final.Keys()
	previous := make(map[string]float64, len(keys))
	for _, m := range keys {
		qty, err := s.store.Materials.GetStock(ctx, m)
		if err != nil {
			return fmt.Errorf("commit %s: %w", m, err)
		}
		previous[m] = qty
	}

	written := make([]string, 0, len(keys))
	for _, m := range keys {
		if err := s.store.Materials.SetStock(ctx, m, final[m]); err != nil {
			for _, done := range written {
				if rerr := s.store.Materials.SetStock(ctx, done, previous[done]); rerr != nil {
					log.Error().Err(rerr).Str("material", done).Msg("simulation: commit rollback failed")
				}
			}
			return fmt.Errorf("commit %s: %w", m, err)
		}
		written = append(written, m)
	}
	if s.inventory != nil {
		s.inventory.Invalidate(ctx)
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("simulation: cache invalidate failed")
	}
	log.Info().Int("materials", len(final)).Msg("simulation: final stock committed")
	return nil
}

func reorderCounts(result *simulation.Result) map[string]int {
	counts := make(map[string]int)
	for _, s := range result.Summary() {
		counts[s.Material] = s.Orders
	}
	return counts
}
