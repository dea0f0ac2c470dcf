package breakeven

import (
	"context"
	"testing"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/transform"
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
	return &domain.Plan{
		Profile: domain.Profile{ID: "client-1", BirthDate: "1987-01-20"},
		Projects: []domain.Project{
			{ID: "house", Name: "House", TotalCost: decimal.NewFromInt(400000), TargetYear: 2070, Active: true},
		},
		Scenarios: []domain.Scenario{{
			Name: "base",
			Parameters: domain.SimulationParameters{
				CurrentNetWorth:         decimal.NewFromInt(50000),
				RetirementAge:           65,
				DesiredRetirementIncome: decimal.NewFromInt(15000),
				OtherIncome:             decimal.NewFromInt(2500),
				MonthlyContribution:     decimal.NewFromInt(2000),
			},
		}},
	}
}

func request(plan *domain.Plan, target OptimizationTarget, includeProjects bool) OptimizationRequest {
	return OptimizationRequest{
		Plan:         plan,
		BaseScenario: &plan.Scenarios[0],
		Target:       target,
		Constraints:  Constraints{IncludeProjects: includeProjects},
	}
}

// fundedWith evaluates the base scenario with extra transforms
func fundedWith(t *testing.T, s *Solver, req OptimizationRequest, tr transform.ScenarioTransform) bool {
	t.Helper()
	_, funded, err := s.evaluate(context.Background(), req, "test", tr)
	require.NoError(t, err)
	return funded
}

func TestNewSolver(t *testing.T) {
	calcEngine := calculation.NewCalculationEngine()
	options := DefaultSolverOptions()

	solver := NewSolver(calcEngine, options)
	assert.Same(t, calcEngine, solver.CalcEngine)
	assert.Equal(t, options, solver.Options)

	assert.Equal(t, DefaultSolverOptions(), NewDefaultSolver(calcEngine).Options)
}

func TestSolver_Optimize_Validation(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	ctx := context.Background()

	_, err := solver.Optimize(ctx, OptimizationRequest{Target: OptimizeIncome})
	assert.Error(t, err)

	plan := testPlan()
	req := request(plan, OptimizationTarget("tax"), false)
	_, err = solver.Optimize(ctx, req)
	var be *BreakEvenError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "optimize", be.Operation)

	minAge, maxAge := 70, 60
	req = request(plan, OptimizeRetirementAge, false)
	req.Constraints.MinRetirementAge = &minAge
	req.Constraints.MaxRetirementAge = &maxAge
	_, err = solver.Optimize(ctx, req)
	assert.ErrorContains(t, err, "min_retirement_age")
}

func TestSolver_OptimizeContribution(t *testing.T) {
	fixClock(t)
	solver := NewDefaultSolver(calculation.NewCalculationEngine().WithCache(calculation.NewProjectionCache(0)))
	plan := testPlan()
	req := request(plan, OptimizeContribution, false)

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success, result.ConvergenceInfo)
	require.NotNil(t, result.OptimalContribution)
	assert.False(t, result.BaseFunded)

	c := *result.OptimalContribution
	assert.True(t, c.GreaterThan(decimal.NewFromInt(2000)), c.String())
	assert.True(t, fundedWith(t, solver, req, &transform.AdjustContribution{Delta: c.Sub(decimal.NewFromInt(2000))}))
	assert.False(t, fundedWith(t, solver, req, &transform.AdjustContribution{Delta: c.Sub(decimal.NewFromInt(2002))}))
	assert.Equal(t, 0, result.ScenarioSummary.DepletionAge)
	assert.Contains(t, result.ConvergenceInfo, "converged")
}

func TestSolver_OptimizeContribution_ProjectsRaiseTheBar(t *testing.T) {
	fixClock(t)
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	plan := testPlan()

	baseline, err := solver.Optimize(context.Background(), request(plan, OptimizeContribution, false))
	require.NoError(t, err)
	withProjects, err := solver.Optimize(context.Background(), request(plan, OptimizeContribution, true))
	require.NoError(t, err)

	require.True(t, baseline.Success)
	require.True(t, withProjects.Success)
	assert.True(t, withProjects.OptimalContribution.GreaterThan(*baseline.OptimalContribution))
}

func TestSolver_OptimizeContribution_Bounds(t *testing.T) {
	fixClock(t)
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	t.Run("upper bound too low", func(t *testing.T) {
		max := decimal.NewFromInt(2100)
		req := request(testPlan(), OptimizeContribution, false)
		req.Constraints.MaxContribution = &max

		result, err := solver.Optimize(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Nil(t, result.OptimalContribution)
		assert.Contains(t, result.ConvergenceInfo, "2100.00")
	})

	t.Run("already funded without saving", func(t *testing.T) {
		plan := testPlan()
		plan.Scenarios[0].Parameters.CurrentNetWorth = decimal.NewFromInt(10000000)

		result, err := solver.Optimize(context.Background(), request(plan, OptimizeContribution, false))
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.True(t, result.OptimalContribution.IsZero())
		assert.True(t, result.BaseFunded)
	})
}

func TestSolver_OptimizeIncome(t *testing.T) {
	fixClock(t)
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	plan := testPlan()
	req := request(plan, OptimizeIncome, false)

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success, result.ConvergenceInfo)

	income := *result.OptimalIncome
	assert.True(t, income.LessThan(decimal.NewFromInt(15000)), income.String())
	assert.True(t, income.GreaterThan(decimal.NewFromInt(2500)), income.String())
	assert.True(t, fundedWith(t, solver, req, &transform.AdjustDesiredIncome{Delta: income.Sub(decimal.NewFromInt(15000))}))
	assert.False(t, fundedWith(t, solver, req, &transform.AdjustDesiredIncome{Delta: income.Sub(decimal.NewFromInt(14998))}))
}

func TestSolver_OptimizeRetirementAge(t *testing.T) {
	fixClock(t)
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	plan := testPlan()
	req := request(plan, OptimizeRetirementAge, false)

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success, result.ConvergenceInfo)

	age := *result.OptimalRetirementAge
	assert.Greater(t, age, 65)
	assert.LessOrEqual(t, age, 100)
	assert.True(t, fundedWith(t, solver, req, &transform.SetRetirementAge{Age: age}))
	assert.False(t, fundedWith(t, solver, req, &transform.SetRetirementAge{Age: age - 1}))
	assert.Equal(t, age-38+1, result.Iterations-1)
}

func TestSolver_Cancelled(t *testing.T) {
	fixClock(t)
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Optimize(ctx, request(testPlan(), OptimizeIncome, false))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolver_OptimizeMultiDimensional(t *testing.T) {
	fixClock(t)
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	plan := testPlan()

	multi, err := solver.OptimizeMultiDimensional(context.Background(), plan, &plan.Scenarios[0], Constraints{})
	require.NoError(t, err)
	require.Len(t, multi.Results, 3)
	assert.Equal(t, OptimizeContribution, multi.Results[0].Target)
	assert.Len(t, multi.Recommendations, 3)
	assert.Contains(t, multi.Recommendations[0], "save $")
	assert.Contains(t, multi.Recommendations[1], "reduce the desired retirement income")
	assert.Contains(t, multi.Recommendations[2], "postpone retirement")

	table := (&TableFormatter{}).FormatMultiDimensional(multi)
	assert.Contains(t, table, "retirement_age")
	assert.Contains(t, table, "RECOMMENDATIONS")

	out, err := (&JSONFormatter{}).FormatMultiDimensional(multi)
	require.NoError(t, err)
	assert.Contains(t, out, `"target":"income"`)
}
