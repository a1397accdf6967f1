package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/orderparser"
	"github.com/andresuchdata/stockflow/internal/replenishment"
)

func defaultStock() map[string]float64 {
	return map[string]float64{
		domain.MaterialFabric:    2200,
		domain.MaterialCotton:    2200,
		domain.MaterialThread:    2200,
		domain.MaterialPolyester: 2200,
	}
}

func spoolCalculator() *materials.Calculator {
	return materials.NewCalculator(materials.NewCatalog([]domain.ClothingType{
		{ID: "Spool", BaseMaterials: map[string]float64{domain.MaterialThread: 1}},
	}, nil))
}

func mustNew(t *testing.T, cfg Config, calc *materials.Calculator, initial map[string]float64) *Simulator {
	t.Helper()
	sim, err := New(cfg, calc, replenishment.DefaultPolicy(), initial)
	require.NoError(t, err)
	return sim
}

func emptyDays(t *testing.T, sim *Simulator, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := sim.Step(orderparser.Day{})
		require.NoError(t, err)
	}
}

func TestRun_SingleTshirtOrderTriggersReorders(t *testing.T) {
	// GIVEN the default stock and policy
	sim := mustNew(t, Config{TraceLevel: TraceDays}, nil, defaultStock())

	// WHEN one line "1000 Tshirt M" is simulated
	res, err := sim.Run(context.Background(), orderparser.ParseLines([]string{"1000 Tshirt M"}))
	require.NoError(t, err)

	// THEN day 1 demand follows the coefficients
	require.Len(t, res.Days, 1)
	demand := res.Days[0].Demand
	assert.InDelta(t, 1000, demand[domain.MaterialFabric], 1e-9)
	assert.InDelta(t, 800, demand[domain.MaterialCotton], 1e-9)
	assert.InDelta(t, 400, demand[domain.MaterialThread], 1e-9)
	assert.InDelta(t, 1000, demand[domain.MaterialPolyester], 1e-9)

	// AND every material fell to or below the reorder point, so each is
	// scheduled for day 8 at the EOQ
	eoq := replenishment.DefaultPolicy().EconomicOrderQuantity()
	assert.InDelta(t, 1958.9, res.ReorderPoint, 0.01)
	require.Len(t, res.Reorders, 4)
	for _, ro := range res.Reorders {
		assert.Equal(t, 1, ro.Day)
		assert.Equal(t, 8, ro.ArrivalDay)
		assert.Equal(t, eoq, ro.Quantity)
	}
	require.Contains(t, res.Pending, 8)
	assert.Equal(t, eoq, res.Pending[8][domain.MaterialFabric])

	// AND the final ledger is stock minus demand
	assert.InDelta(t, 1200, res.FinalStock[domain.MaterialFabric], 1e-9)
	assert.InDelta(t, 1400, res.FinalStock[domain.MaterialCotton], 1e-9)
	assert.InDelta(t, 1800, res.FinalStock[domain.MaterialThread], 1e-9)
	assert.Equal(t, 1, res.DaysRun)
}

func TestStep_DeliveryLandsBeforeConsumption(t *testing.T) {
	// GIVEN 100 thread due on day 7
	sim := mustNew(t, Config{}, spoolCalculator(), map[string]float64{domain.MaterialThread: 5000})
	require.True(t, sim.schedule.Add(7, domain.MaterialThread, 100))
	emptyDays(t, sim, 6)
	prior := sim.Snapshot()[domain.MaterialThread]

	// WHEN day 7 demands 30 thread
	rec, err := sim.Step(orderparser.Day{Text: "30 Spool M"})
	require.NoError(t, err)

	// THEN both the delivery and the consumption are reflected
	assert.Equal(t, 7, rec.Day)
	assert.Equal(t, map[string]float64{domain.MaterialThread: 100}, rec.Delivered)
	assert.Equal(t, prior+100-30, sim.Snapshot()[domain.MaterialThread])
	assert.NotContains(t, sim.Pending(), 7)
}

func TestStep_DeliveryCountsTowardReorderCheck(t *testing.T) {
	// GIVEN thread just under the reorder point with a delivery due today
	sim := mustNew(t, Config{}, spoolCalculator(), map[string]float64{domain.MaterialThread: 1900})
	require.True(t, sim.schedule.Add(1, domain.MaterialThread, 1000))

	// WHEN a small order comes in
	rec, err := sim.Step(orderparser.Day{Text: "10 Spool M"})
	require.NoError(t, err)

	// THEN the delivered stock keeps thread above the threshold
	assert.Empty(t, rec.Reorders)
	assert.Equal(t, 2890.0, rec.Stock[domain.MaterialThread])
}

func TestStep_NoDoubleDelivery(t *testing.T) {
	// GIVEN a delivery already booked for day 8
	sim := mustNew(t, Config{}, nil, defaultStock())
	require.True(t, sim.schedule.Add(8, domain.MaterialFabric, 5))

	// WHEN day 1 pushes fabric below the reorder point
	rec, err := sim.Step(orderparser.Day{Text: "1000 Tshirt M"})
	require.NoError(t, err)

	// THEN the booked entry is neither replaced nor summed
	assert.Equal(t, 5.0, sim.Pending()[8][domain.MaterialFabric])
	for _, ro := range rec.Reorders {
		assert.NotEqual(t, domain.MaterialFabric, ro.Material)
	}
	assert.Len(t, rec.Reorders, 3)
}

func TestSchedule_FirstWriteWins(t *testing.T) {
	s := NewSchedule()

	assert.True(t, s.Add(3, "fabric", 10))
	assert.False(t, s.Add(3, "fabric", 20))
	assert.True(t, s.Add(3, "cotton", 7))

	assert.Equal(t, map[string]float64{"fabric": 10, "cotton": 7}, s.Take(3))
	assert.Nil(t, s.Take(3))
	assert.True(t, s.Empty())
}

func TestStep_UnknownClothingTypeLeavesStateUntouched(t *testing.T) {
	// GIVEN a simulator with a pending delivery for today
	sim := mustNew(t, Config{}, nil, defaultStock())
	require.True(t, sim.schedule.Add(1, domain.MaterialFabric, 100))
	before, pending := sim.Snapshot(), sim.Pending()

	// WHEN the day mixes a valid order with an unknown type
	_, err := sim.Step(orderparser.Day{Text: "10 Tshirt do tamanho M e 5 Kimono do tamanho S"})

	// THEN the error names the day and type
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownClothingType))
	var dayErr *DayError
	require.ErrorAs(t, err, &dayErr)
	assert.Equal(t, 1, dayErr.Day)
	assert.Equal(t, "Kimono", dayErr.ClothingType)

	// AND nothing moved
	assert.Equal(t, before, sim.Snapshot())
	assert.Equal(t, pending, sim.Pending())
	assert.Equal(t, 1, sim.Day())
	assert.Empty(t, sim.Reorders())
}

func TestRun_AbortsOnUnknownType(t *testing.T) {
	sim := mustNew(t, Config{}, nil, defaultStock())

	res, err := sim.Run(context.Background(), orderparser.ParseLines([]string{
		"10 Tshirt M",
		"garbage line",
		"5 Kimono S",
		"10 Tshirt M",
	}))

	assert.Nil(t, res)
	var dayErr *DayError
	require.ErrorAs(t, err, &dayErr)
	assert.Equal(t, 3, dayErr.Day)
	assert.Equal(t, "5 Kimono S", dayErr.Line)
}

func TestConsumptionPolicy_Active(t *testing.T) {
	line := "10 Tshirt do tamanho M e 20 Tshirt do tamanho M"
	stock := map[string]float64{domain.MaterialFabric: 5000}

	tests := []struct {
		name   string
		policy ConsumptionPolicy
		want   ConsumptionPolicy
		fabric float64
	}{
		{"default is aggregate", "", ConsumeAggregate, 5000 - 30},
		{"aggregate", ConsumeAggregate, ConsumeAggregate, 5000 - 30},
		{"last order doubled", ConsumeLastOrderDoubled, ConsumeLastOrderDoubled, 5000 - 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := mustNew(t, Config{Consumption: tt.policy}, nil, stock)
			assert.Equal(t, tt.want, sim.ConsumptionPolicy())

			rec, err := sim.Step(orderparser.Day{Text: line})
			require.NoError(t, err)

			assert.InDelta(t, 30, rec.Demand[domain.MaterialFabric], 1e-9)
			assert.InDelta(t, tt.fabric, rec.Stock[domain.MaterialFabric], 1e-9)
		})
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(Config{Consumption: "twice"}, nil, replenishment.DefaultPolicy(), nil)
	assert.Error(t, err)

	_, err = New(Config{TraceLevel: "verbose"}, nil, replenishment.DefaultPolicy(), nil)
	assert.Error(t, err)

	bad := replenishment.DefaultPolicy()
	bad.HoldingCost = 0
	_, err = New(Config{}, nil, bad, nil)
	assert.Error(t, err)
}

func TestRun_DrainDeliversOutstandingOrders(t *testing.T) {
	lines := []string{"1000 Tshirt M"}
	eoq := replenishment.DefaultPolicy().EconomicOrderQuantity()

	// without drain the run stops at the end of input
	plain := mustNew(t, Config{}, nil, defaultStock())
	res, err := plain.Run(context.Background(), orderparser.ParseLines(lines))
	require.NoError(t, err)
	assert.Equal(t, 1, res.DaysRun)
	assert.Contains(t, res.Pending, 8)

	// with drain the day 8 delivery lands
	drained := mustNew(t, Config{Drain: true}, nil, defaultStock())
	res, err = drained.Run(context.Background(), orderparser.ParseLines(lines))
	require.NoError(t, err)
	assert.Equal(t, 8, res.DaysRun)
	assert.Empty(t, res.Pending)
	assert.InDelta(t, 1200+eoq, res.FinalStock[domain.MaterialFabric], 1e-9)
}

func TestRun_ZeroLeadTimeReorderNeverArrives(t *testing.T) {
	policy := replenishment.DefaultPolicy()
	policy.LeadTimeDays = 0
	eoq := policy.EconomicOrderQuantity()

	for _, drain := range []bool{false, true} {
		// GIVEN a reorder due on the day it is placed
		sim, err := New(Config{Drain: drain}, nil, policy, defaultStock())
		require.NoError(t, err)

		res, err := sim.Run(context.Background(), orderparser.ParseLines([]string{"1000 Tshirt M"}))
		require.NoError(t, err)

		// THEN it stays pending since day 1 was already delivered, and drain stops at once
		assert.Equal(t, 1, res.DaysRun, "drain=%t", drain)
		require.Contains(t, res.Pending, 1)
		assert.InDelta(t, eoq, res.Pending[1][domain.MaterialFabric], 1e-9)
		assert.InDelta(t, 1200, res.FinalStock[domain.MaterialFabric], 1e-9)
	}
}

func TestRun_NegativeStockIsNotClamped(t *testing.T) {
	sim := mustNew(t, Config{}, spoolCalculator(), map[string]float64{domain.MaterialThread: 10})

	res, err := sim.Run(context.Background(), orderparser.ParseLines([]string{"25 Spool M"}))
	require.NoError(t, err)

	assert.Equal(t, -15.0, res.FinalStock[domain.MaterialThread])
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	sim := mustNew(t, Config{}, nil, defaultStock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sim.Run(ctx, orderparser.ParseLines([]string{"1 Tshirt M"}))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_IsACopy(t *testing.T) {
	sim := mustNew(t, Config{}, nil, defaultStock())

	snap := sim.Snapshot()
	snap[domain.MaterialFabric] = -1
	pending := sim.Pending()
	pending[1] = map[string]float64{"x": 1}

	assert.Equal(t, 2200.0, sim.Snapshot()[domain.MaterialFabric])
	assert.Empty(t, sim.Pending())
}

func TestResult_Summary(t *testing.T) {
	res := &Result{Reorders: []Reorder{
		{Material: "thread", Quantity: 10},
		{Material: "fabric", Quantity: 5},
		{Material: "thread", Quantity: 10},
	}}

	assert.Equal(t, []MaterialSummary{
		{Material: "fabric", Orders: 1, Quantity: 5},
		{Material: "thread", Orders: 2, Quantity: 20},
	}, res.Summary())
	assert.Equal(t, map[string]float64{"fabric": 5, "thread": 20}, res.ReorderTotals())

	var nilResult *Result
	assert.Nil(t, nilResult.Summary())
}
