package simulation

import (
	"sort"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
)

// TraceLevel controls how much per-day detail a run keeps.
type TraceLevel string

const (
	// TraceNone keeps only the final ledger and reorder log.
	TraceNone TraceLevel = "none"
	// TraceDays keeps one DayRecord per simulated day.
	TraceDays TraceLevel = "days"
)

// ParseTraceLevel accepts "none", "days" or empty (none).
func ParseTraceLevel(raw string) (TraceLevel, bool) {
	switch TraceLevel(raw) {
	case TraceNone, "":
		return TraceNone, true
	case TraceDays:
		return TraceDays, true
	}
	return "", false
}

// Reorder is one replenishment placed by the simulator.
type Reorder struct {
	Day        int     `json:"day"`
	ArrivalDay int     `json:"arrival_day"`
	Material   string  `json:"material"`
	Quantity   float64 `json:"quantity"`
}

// DayRecord is the trace of a single simulated day.
type DayRecord struct {
	Day       int                    `json:"day"`
	Line      string                 `json:"line,omitempty"`
	Orders    []domain.Order         `json:"orders,omitempty"`
	Demand    materials.Requirements `json:"demand"`
	Delivered map[string]float64     `json:"delivered,omitempty"`
	Reorders  []Reorder              `json:"reorders,omitempty"`
	Stock     Ledger                 `json:"stock"`
}

// Result is the observable output of a run.
type Result struct {
	FinalStock   Ledger                     `json:"final_stock"`
	Reorders     []Reorder                  `json:"reorders"`
	Pending      map[int]map[string]float64 `json:"pending,omitempty"`
	Days         []DayRecord                `json:"days,omitempty"`
	DaysRun      int                        `json:"days_run"`
	EOQ          float64                    `json:"eoq"`
	ReorderPoint float64                    `json:"reorder_point"`
}

// MaterialSummary totals the reorders of one material.
type MaterialSummary struct {
	Material string  `json:"material"`
	Orders   int     `json:"orders"`
	Quantity float64 `json:"quantity"`
}

// Summary aggregates reorders per material, sorted by material key.
// Safe on a nil result.
func (r *Result) Summary() []MaterialSummary {
	if r == nil {
		return nil
	}
	byMaterial := make(map[string]*MaterialSummary)
	for _, ro := range r.Reorders {
		s, ok := byMaterial[ro.Material]
		if !ok {
			s = &MaterialSummary{Material: ro.Material}
			byMaterial[ro.Material] = s
		}
		s.Orders++
		s.Quantity += ro.Quantity
	}

	out := make([]MaterialSummary, 0, len(byMaterial))
	for _, s := range byMaterial {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out
}

// ReorderTotals is Summary flattened to material → total quantity.
func (r *Result) ReorderTotals() map[string]float64 {
	totals := make(map[string]float64)
	for _, s := range r.Summary() {
		totals[s.Material] = s.Quantity
	}
	return totals
}
