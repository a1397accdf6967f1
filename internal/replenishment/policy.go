// Package replenishment holds the EOQ / reorder-point policy shared by every
// material in the simulation.
package replenishment

import (
	"errors"
	"fmt"
	"math"
)

const daysPerYear = 365

// Policy is the process-wide replenishment configuration.
type Policy struct {
	AnnualDemand float64 `json:"annual_demand" mapstructure:"annual_demand"`
	OrderCost    float64 `json:"order_cost" mapstructure:"order_cost"`
	HoldingCost  float64 `json:"holding_cost" mapstructure:"holding_cost"`
	LeadTimeDays int     `json:"lead_time_days" mapstructure:"lead_time_days"`
	SafetyStock  float64 `json:"safety_stock" mapstructure:"safety_stock"`
}

// DefaultPolicy returns the constants the plant runs with.
func DefaultPolicy() Policy {
	return Policy{
		AnnualDemand: 50000,
		OrderCost:    10,
		HoldingCost:  0.7,
		LeadTimeDays: 7,
		SafetyStock:  1000,
	}
}

// Validate rejects configurations the formulas cannot evaluate.
func (p Policy) Validate() error {
	var errs []error
	if p.HoldingCost <= 0 {
		errs = append(errs, fmt.Errorf("holding cost must be positive, got %v", p.HoldingCost))
	}
	if p.AnnualDemand < 0 {
		errs = append(errs, fmt.Errorf("annual demand must not be negative, got %v", p.AnnualDemand))
	}
	if p.OrderCost < 0 {
		errs = append(errs, fmt.Errorf("order cost must not be negative, got %v", p.OrderCost))
	}
	if p.LeadTimeDays < 0 {
		errs = append(errs, fmt.Errorf("lead time must not be negative, got %d", p.LeadTimeDays))
	}
	if p.SafetyStock < 0 {
		errs = append(errs, fmt.Errorf("safety stock must not be negative, got %v", p.SafetyStock))
	}
	return errors.Join(errs...)
}

// EconomicOrderQuantity = sqrt(2 × annual demand × order cost / holding cost).
// Every reorder ships this fixed batch regardless of the deficit.
func (p Policy) EconomicOrderQuantity() float64 {
	return math.Sqrt(2 * p.AnnualDemand * p.OrderCost / p.HoldingCost)
}

// ReorderPoint = daily demand × lead time + safety stock, one threshold for
// all materials.
func (p Policy) ReorderPoint() float64 {
	return p.DailyDemand()*float64(p.LeadTimeDays) + p.SafetyStock
}

// DailyDemand is the annual demand spread over a 365-day year.
func (p Policy) DailyDemand() float64 {
	return p.AnnualDemand / daysPerYear
}

// Assessment describes one material's position against the policy.
type Assessment struct {
	Material       string  `json:"material"`
	OnHand         float64 `json:"on_hand"`
	ReorderPoint   float64 `json:"reorder_point"`
	DaysCover      float64 `json:"days_cover"`
	NeedsReorder   bool    `json:"needs_reorder"`
	SuggestedOrder float64 `json:"suggested_order"`
}

// Assess checks an on-hand quantity against the reorder point.
func (p Policy) Assess(material string, onHand float64) Assessment {
	a := Assessment{
		Material:     material,
		OnHand:       onHand,
		ReorderPoint: p.ReorderPoint(),
	}

	// Days of cover at the average daily rate
	if daily := p.DailyDemand(); daily > 0 {
		a.DaysCover = math.Max(0, onHand) / daily
	}

	if onHand <= a.ReorderPoint {
		a.NeedsReorder = true
		a.SuggestedOrder = p.EconomicOrderQuantity()
	}
	return a
}

// AssessAll runs Assess over a ledger snapshot, ordered by material key.
func (p Policy) AssessAll(stock map[string]float64, keys []string) []Assessment {
	out := make([]Assessment, 0, len(keys))
	for _, k := range keys {
		out = append(out, p.Assess(k, stock[k]))
	}
	return out
}
