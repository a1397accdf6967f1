// Package simulation runs the day-stepped stock ledger: each input line is a
// day whose orders are delivered against, checked for reorders, then consumed.
package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/orderparser"
	"github.com/andresuchdata/stockflow/internal/replenishment"
)

// ConsumptionPolicy selects how a day's demand leaves the ledger.
type ConsumptionPolicy string

const (
	// ConsumeAggregate subtracts the day's aggregate demand once.
	ConsumeAggregate ConsumptionPolicy = "aggregate"
	// ConsumeLastOrderDoubled subtracts twice the requirement of the day's
	// last order, reproducing the legacy spreadsheet run.
	ConsumeLastOrderDoubled ConsumptionPolicy = "last-order-doubled"
)

// ParseConsumptionPolicy maps a config value to a policy; empty means aggregate.
func ParseConsumptionPolicy(raw string) (ConsumptionPolicy, error) {
	switch ConsumptionPolicy(raw) {
	case "", ConsumeAggregate:
		return ConsumeAggregate, nil
	case ConsumeLastOrderDoubled:
		return ConsumeLastOrderDoubled, nil
	}
	return "", fmt.Errorf("unknown consumption policy %q", raw)
}

// Config tunes a simulator.
type Config struct {
	Consumption ConsumptionPolicy
	TraceLevel  TraceLevel
	// Drain keeps stepping empty days after the input ends until every
	// scheduled delivery has landed.
	Drain bool
}

// DayError aborts a run at the day whose orders could not be costed.
type DayError struct {
	Day          int
	Line         string
	ClothingType string
	Err          error
}

func (e *DayError) Error() string {
	if e.ClothingType != "" {
		return fmt.Sprintf("day %d: clothing type %q: %v", e.Day, e.ClothingType, e.Err)
	}
	return fmt.Sprintf("day %d: %v", e.Day, e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }

// Simulator owns the stock ledger and delivery schedule of one run. It is not
// safe for concurrent use.
type Simulator struct {
	cfg    Config
	calc   *materials.Calculator
	policy replenishment.Policy

	eoq          float64
	reorderPoint float64

	day      int
	ledger   Ledger
	schedule *Schedule
	reorders []Reorder
}

// New validates the policy and returns a simulator positioned at day 1.
func New(cfg Config, calc *materials.Calculator, policy replenishment.Policy, initial map[string]float64) (*Simulator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid replenishment policy: %w", err)
	}
	consumption, err := ParseConsumptionPolicy(string(cfg.Consumption))
	if err != nil {
		return nil, err
	}
	cfg.Consumption = consumption
	if _, ok := ParseTraceLevel(string(cfg.TraceLevel)); !ok {
		return nil, fmt.Errorf("unknown trace level %q", cfg.TraceLevel)
	}
	if calc == nil {
		calc = materials.NewCalculator(nil)
	}

	return &Simulator{
		cfg:          cfg,
		calc:         calc,
		policy:       policy,
		eoq:          policy.EconomicOrderQuantity(),
		reorderPoint: policy.ReorderPoint(),
		day:          1,
		ledger:       NewLedger(initial),
		schedule:     NewSchedule(),
	}, nil
}

// ConsumptionPolicy reports the active consumption policy.
func (s *Simulator) ConsumptionPolicy() ConsumptionPolicy {
	return s.cfg.Consumption
}

// Day is the index of the next day Step will process.
func (s *Simulator) Day() int {
	return s.day
}

// Snapshot returns a copy of the ledger.
func (s *Simulator) Snapshot() Ledger {
	return s.ledger.Clone()
}

// Pending returns a copy of the delivery schedule.
func (s *Simulator) Pending() map[int]map[string]float64 {
	return s.schedule.Snapshot()
}

// Reorders returns a copy of the reorders placed so far.
func (s *Simulator) Reorders() []Reorder {
	return append([]Reorder(nil), s.reorders...)
}

// Step processes one day. On a DayError nothing is mutated and the day
// counter does not move.
func (s *Simulator) Step(in orderparser.Day) (DayRecord, error) {
	today := s.day

	orders := in.Orders
	if orders == nil && in.Text != "" {
		orders = orderparser.Parse(in.Text)
	}

	demand, consumed, err := s.dailyRequirements(orders)
	if err != nil {
		return DayRecord{}, s.dayError(today, in.Text, err)
	}

	rec := DayRecord{Day: today, Line: in.Text, Orders: orders, Demand: demand}

	if delivery := s.schedule.Take(today); delivery != nil {
		s.ledger.Receive(delivery)
		rec.Delivered = delivery
		log.Debug().Int("day", today).Interface("delivered", delivery).Msg("simulation: delivery received")
	}

	arrival := today + s.policy.LeadTimeDays
	for _, m := range demand.Keys() {
		effective := s.ledger[m] - demand[m]
		if effective > s.reorderPoint {
			continue
		}
		if !s.schedule.Add(arrival, m, s.eoq) {
			continue
		}
		ro := Reorder{Day: today, ArrivalDay: arrival, Material: m, Quantity: s.eoq}
		s.reorders = append(s.reorders, ro)
		rec.Reorders = append(rec.Reorders, ro)
		log.Info().
			Int("day", today).
			Str("material", m).
			Float64("effective_stock", effective).
			Float64("quantity", s.eoq).
			Int("arrival_day", arrival).
			Msg("simulation: reorder placed")
	}

	s.ledger.Consume(consumed)
	rec.Stock = s.ledger.Clone()

	log.Debug().
		Int("day", today).
		Int("orders", len(orders)).
		Interface("stock", rec.Stock).
		Msg("simulation: day closed")

	s.day++
	return rec, nil
}

// dailyRequirements returns the day's aggregate demand and the quantity the
// consumption policy removes from the ledger.
func (s *Simulator) dailyRequirements(orders []domain.Order) (demand, consumed materials.Requirements, err error) {
	demand, err = s.calc.Aggregate(orders)
	if err != nil {
		return nil, nil, err
	}

	switch s.cfg.Consumption {
	case ConsumeLastOrderDoubled:
		if len(orders) == 0 {
			return demand, materials.Requirements{}, nil
		}
		last, err := s.calc.Calculate(orders[len(orders)-1])
		if err != nil {
			return nil, nil, err
		}
		return demand, last.Add(last), nil
	default:
		return demand, demand, nil
	}
}

// deliveriesAhead reports whether a delivery is due today or later. With a
// zero lead time a reorder lands on a day already processed and never arrives.
func (s *Simulator) deliveriesAhead() bool {
	days := s.schedule.Days()
	return len(days) > 0 && days[len(days)-1] >= s.day
}

func (s *Simulator) dayError(day int, line string, err error) *DayError {
	de := &DayError{Day: day, Line: line, Err: err}
	var unknown *domain.UnknownClothingTypeError
	if errors.As(err, &unknown) {
		de.ClothingType = unknown.Type
	}
	return de
}

// Run steps through every day in order and, with Drain set, keeps stepping
// empty days until no delivery is pending. The first DayError aborts the run
// and no result is returned. ctx is checked between days.
func (s *Simulator) Run(ctx context.Context, days []orderparser.Day) (*Result, error) {
	res := &Result{
		EOQ:          s.eoq,
		ReorderPoint: s.reorderPoint,
	}
	keep := s.cfg.TraceLevel == TraceDays

	step := func(d orderparser.Day) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := s.Step(d)
		if err != nil {
			log.Error().Err(err).Int("day", s.day).Msg("simulation: run aborted")
			return err
		}
		res.DaysRun++
		if keep {
			res.Days = append(res.Days, rec)
		}
		return nil
	}

	log.Info().
		Int("days", len(days)).
		Float64("eoq", s.eoq).
		Float64("reorder_point", s.reorderPoint).
		Str("consumption", string(s.cfg.Consumption)).
		Msg("simulation: run started")

	for _, d := range days {
		if err := step(d); err != nil {
			return nil, err
		}
	}

	if s.cfg.Drain {
		for s.deliveriesAhead() {
			if err := step(orderparser.Day{Index: s.day}); err != nil {
				return nil, err
			}
		}
	}

	res.FinalStock = s.Snapshot()
	res.Reorders = s.Reorders()
	res.Pending = s.Pending()

	log.Info().
		Int("days_run", res.DaysRun).
		Int("reorders", len(res.Reorders)).
		Msg("simulation: run finished")

	return res, nil
}
