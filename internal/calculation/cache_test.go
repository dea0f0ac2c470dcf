package calculation

import (
	"testing"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetWorthKey_SensitiveToEveryInput(t *testing.T) {
	a := domain.DefaultProjectionAssumptions()
	base := NetWorthInput{
		Parameters:  referenceParams(),
		Projects:    []domain.Project{{ID: "car", TotalCost: decimal.NewFromInt(50000), TargetYear: 2030, Active: true}},
		CurrentYear: 2025,
	}
	baseKey, err := NetWorthKey(base, a)
	require.NoError(t, err)

	again, err := NetWorthKey(base, a)
	require.NoError(t, err)
	assert.Equal(t, baseKey, again)

	mutations := map[string]func(in *NetWorthInput, a *domain.ProjectionAssumptions){
		"current age":       func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Parameters.CurrentAge++ },
		"net worth":         func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Parameters.CurrentNetWorth = decimal.NewFromInt(1) },
		"retirement age":    func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Parameters.RetirementAge = 60 },
		"desired income":    func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Parameters.DesiredRetirementIncome = decimal.NewFromInt(1) },
		"other income":      func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Parameters.OtherIncome = decimal.NewFromInt(1) },
		"contribution":      func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Parameters.MonthlyContribution = decimal.NewFromInt(1) },
		"project cost":      func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Projects[0].TotalCost = decimal.NewFromInt(1) },
		"project flag":      func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.Projects[0].Active = false },
		"active ids empty":  func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.ActiveProjectIDs = []string{} },
		"active ids listed": func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.ActiveProjectIDs = []string{"car"} },
		"current year":      func(in *NetWorthInput, _ *domain.ProjectionAssumptions) { in.CurrentYear = 2026 },
		"return rate":       func(_ *NetWorthInput, a *domain.ProjectionAssumptions) { a.AnnualReturnRate = decimal.NewFromFloat(0.05) },
		"terminal age":      func(_ *NetWorthInput, a *domain.ProjectionAssumptions) { a.TerminalAge = 95 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := base
			in.Projects = append([]domain.Project{}, base.Projects...)
			aa := a
			mutate(&in, &aa)
			key, err := NetWorthKey(in, aa)
			require.NoError(t, err)
			assert.NotEqual(t, baseKey, key)
		})
	}
}

func TestCashFlowKey_SensitiveToInputs(t *testing.T) {
	a := domain.DefaultProjectionAssumptions()
	base := CashFlowInput{
		Items:     []domain.CashFlowItem{income(1000, 2025, 3, nil)},
		BirthDate: testBirthDate,
		AsOf:      testAsOf,
	}
	baseKey, err := CashFlowKey(base, a)
	require.NoError(t, err)

	sameDay := base
	sameDay.AsOf = testAsOf.Add(3 * time.Hour)
	k, _ := CashFlowKey(sameDay, a)
	assert.Equal(t, baseKey, k, "time of day does not matter")

	nextYear := base
	nextYear.AsOf = testAsOf.AddDate(1, 0, 0)
	k, _ = CashFlowKey(nextYear, a)
	assert.NotEqual(t, baseKey, k)

	other := base
	other.BirthDate = "1990-01-01"
	k, _ = CashFlowKey(other, a)
	assert.NotEqual(t, baseKey, k)

	longer := base
	longer.LifeExpectancy = 95
	k, _ = CashFlowKey(longer, a)
	assert.NotEqual(t, baseKey, k)

	item := base
	item.Items = []domain.CashFlowItem{income(1001, 2025, 3, nil)}
	k, _ = CashFlowKey(item, a)
	assert.NotEqual(t, baseKey, k)

	inflation := a
	inflation.DefaultCorrectionRate = decimal.NewFromFloat(0.05)
	k, _ = CashFlowKey(base, inflation)
	assert.NotEqual(t, baseKey, k)
}

func TestProjectionCache_Eviction(t *testing.T) {
	c := NewProjectionCache(2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)

	c.Purge()
	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestCalculationEngine_CachedProjectionsMatch(t *testing.T) {
	a := domain.DefaultProjectionAssumptions()
	engine := NewCalculationEngine().WithCache(NewProjectionCache(8))

	in := NetWorthInput{Parameters: referenceParams(), CurrentYear: 2025}
	first := engine.ProjectNetWorth(in, a)
	second := engine.ProjectNetWorth(in, a)
	assert.Same(t, first, second)
	assert.Equal(t, ProjectNetWorth(in, a), first)

	changed := in
	changed.Parameters.RetirementAge = 60
	third := engine.ProjectNetWorth(changed, a)
	assert.NotSame(t, first, third)
	assert.NotEqual(t, first.BaselineBalances, third.BaselineBalances)

	stats := engine.Cache.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}
