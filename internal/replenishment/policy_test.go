package replenishment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Values(t *testing.T) {
	p := DefaultPolicy()

	require.NoError(t, p.Validate())
	assert.InDelta(t, 1195.2286, p.EconomicOrderQuantity(), 1e-3)
	assert.InDelta(t, 1958.9041, p.ReorderPoint(), 1e-3)
	assert.InDelta(t, 136.9863, p.DailyDemand(), 1e-3)
}

func TestPolicy_IsDeterministic(t *testing.T) {
	p := DefaultPolicy()

	eoq1, eoq2 := p.EconomicOrderQuantity(), p.EconomicOrderQuantity()
	rop1, rop2 := p.ReorderPoint(), p.ReorderPoint()

	assert.Equal(t, math.Float64bits(eoq1), math.Float64bits(eoq2))
	assert.Equal(t, math.Float64bits(rop1), math.Float64bits(rop2))
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
		ok     bool
	}{
		{"default", func(*Policy) {}, true},
		{"zero holding cost", func(p *Policy) { p.HoldingCost = 0 }, false},
		{"negative demand", func(p *Policy) { p.AnnualDemand = -1 }, false},
		{"negative order cost", func(p *Policy) { p.OrderCost = -1 }, false},
		{"negative lead time", func(p *Policy) { p.LeadTimeDays = -1 }, false},
		{"negative safety stock", func(p *Policy) { p.SafetyStock = -5 }, false},
		{"zero lead time", func(p *Policy) { p.LeadTimeDays = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			if tt.ok {
				assert.NoError(t, p.Validate())
			} else {
				assert.Error(t, p.Validate())
			}
		})
	}
}

func TestPolicy_ReorderPointWithoutLeadTimeIsSafetyStock(t *testing.T) {
	p := DefaultPolicy()
	p.LeadTimeDays = 0

	assert.Equal(t, p.SafetyStock, p.ReorderPoint())
}

func TestAssess(t *testing.T) {
	p := DefaultPolicy()

	low := p.Assess("fabric", 1200)
	assert.True(t, low.NeedsReorder)
	assert.Equal(t, p.EconomicOrderQuantity(), low.SuggestedOrder)

	high := p.Assess("cotton", 2200)
	assert.False(t, high.NeedsReorder)
	assert.Zero(t, high.SuggestedOrder)
	assert.InDelta(t, 2200/p.DailyDemand(), high.DaysCover, 1e-9)

	negative := p.Assess("thread", -50)
	assert.True(t, negative.NeedsReorder)
	assert.Zero(t, negative.DaysCover)
}

func TestAssessAll_FollowsKeyOrder(t *testing.T) {
	got := DefaultPolicy().AssessAll(map[string]float64{"b": 1, "a": 5000}, []string{"a", "b"})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Material)
	assert.False(t, got[0].NeedsReorder)
	assert.True(t, got[1].NeedsReorder)
}
