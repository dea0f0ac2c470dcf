package compare

import (
	"context"
	"testing"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T) {
	t.Helper()
	calculation.SetNowFunc(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	t.Cleanup(func() { calculation.SetNowFunc(time.Now) })
}

func testPlan() *domain.Plan {
	params := domain.SimulationParameters{
		CurrentNetWorth:         decimal.NewFromInt(50000),
		RetirementAge:           65,
		DesiredRetirementIncome: decimal.NewFromInt(15000),
		OtherIncome:             decimal.NewFromInt(2500),
		MonthlyContribution:     decimal.NewFromInt(2000),
	}
	return &domain.Plan{
		Profile: domain.Profile{ID: "client-1", Name: "Ana", BirthDate: "1987-01-20"},
		CashFlowItems: []domain.CashFlowItem{
			{Kind: domain.FlowIncome, MonthlyAmount: decimal.NewFromInt(12000), StartType: domain.AnchorYear, Start: 2025, DurationYears: 27},
			{Kind: domain.FlowExpense, MonthlyAmount: decimal.NewFromInt(8000), StartType: domain.AnchorYear, Start: 2025, DurationYears: 65},
		},
		Projects: []domain.Project{
			{ID: "house", Name: "House", TotalCost: decimal.NewFromInt(200000), TargetYear: 2030, Active: true},
			{ID: "boat", Name: "Boat", TotalCost: decimal.NewFromInt(90000), TargetYear: 2035, Priority: domain.PriorityDream, Active: true},
		},
		Scenarios: []domain.Scenario{
			{Name: "base", Description: "Current plan", Parameters: params},
			{Name: "frugal", Parameters: func() domain.SimulationParameters {
				p := params
				p.DesiredRetirementIncome = decimal.NewFromInt(9000)
				return p
			}()},
		},
	}
}

func TestCompareEngine_Compare(t *testing.T) {
	fixClock(t)
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.Compare(context.Background(), testPlan(), CompareOptions{
		BaseScenarioName: "base",
		Templates:        []string{"retire_later", "essentials_only"},
	})
	require.NoError(t, err)

	assert.Equal(t, "base", compSet.BaseScenarioName)
	assert.Equal(t, "client-1", compSet.PlanID)
	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, "Current plan", compSet.BaseResult.Description)
	require.Len(t, compSet.AlternativeResults, 2)

	later := compSet.AlternativeResults[0]
	assert.Equal(t, "base_retire_later", later.ScenarioName)
	assert.Equal(t, 68, later.RetirementAge)
	assert.Greater(t, later.FundedYears, compSet.BaseResult.FundedYears)
	assert.Equal(t, later.FundedYears-compSet.BaseResult.FundedYears, later.FundedYearsDiff)

	essentials := compSet.AlternativeResults[1]
	assert.True(t, essentials.TotalProjectCost.LessThan(compSet.BaseResult.TotalProjectCost))
	assert.True(t, essentials.TotalProjectCost.Equal(decimal.NewFromInt(200000)))

	assert.NotEmpty(t, compSet.Recommendations)
}

func TestCompareEngine_CompareTransformSpecs(t *testing.T) {
	fixClock(t)
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.Compare(context.Background(), testPlan(), CompareOptions{
		TransformSpecs: []string{"adjust_contribution:amount=1000;postpone_retirement:years=1"},
	})
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)

	alt := compSet.AlternativeResults[0]
	assert.Equal(t, "base_adjust_contribution", alt.ScenarioName)
	assert.Equal(t, 66, alt.RetirementAge)
	assert.True(t, alt.MonthlyContribution.Equal(decimal.NewFromInt(3000)))
	assert.Contains(t, alt.Description, "; ")
}

func TestCompareEngine_CompareErrors(t *testing.T) {
	fixClock(t)
	engine := NewCompareEngine(calculation.NewCalculationEngine())
	ctx := context.Background()

	_, err := engine.Compare(ctx, nil, CompareOptions{})
	assert.Error(t, err)

	_, err = engine.Compare(ctx, testPlan(), CompareOptions{BaseScenarioName: "missing"})
	assert.Error(t, err)

	_, err = engine.Compare(ctx, testPlan(), CompareOptions{Templates: []string{"retire_on_mars"}})
	assert.ErrorContains(t, err, "template retire_on_mars not found")

	_, err = engine.Compare(ctx, testPlan(), CompareOptions{TransformSpecs: []string{"activate_project:id=yacht"}})
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = engine.Compare(cancelled, testPlan(), CompareOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareEngine_CompareScenarios(t *testing.T) {
	fixClock(t)
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.CompareScenarios(context.Background(), testPlan(), "base", []string{"frugal"})
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)

	frugal := compSet.AlternativeResults[0]
	assert.True(t, frugal.MonthlyWithdrawal.Equal(decimal.NewFromInt(6500)))
	assert.GreaterOrEqual(t, frugal.FundedYears, compSet.BaseResult.FundedYears)
	assert.True(t, frugal.FinalBalance.GreaterThanOrEqual(compSet.BaseResult.FinalBalance))

	_, err = engine.CompareScenarios(context.Background(), testPlan(), "base", []string{"nope"})
	assert.Error(t, err)
}
