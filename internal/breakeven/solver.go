package breakeven

import (
	"context"
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver searches the net worth projection for break-even parameters
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

var hundred = decimal.NewFromInt(100)

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.Plan == nil || req.BaseScenario == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "plan and base scenario are required"}
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	switch req.Target {
	case OptimizeContribution:
		return s.optimizeContribution(ctx, req)
	case OptimizeIncome:
		return s.optimizeIncome(ctx, req)
	case OptimizeRetirementAge:
		return s.optimizeRetirementAge(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// evaluate runs the base scenario with transforms applied and reports whether it stays funded
func (s *Solver) evaluate(ctx context.Context, req OptimizationRequest, op string, transforms ...transform.ScenarioTransform) (*domain.ScenarioSummary, bool, error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	default:
	}

	scenario, err := transform.ApplyTransforms(req.BaseScenario, transforms)
	if err != nil {
		return nil, false, &BreakEvenError{Operation: op, Message: "failed to apply transform", Cause: err}
	}

	summary, err := s.CalcEngine.RunScenario(ctx, req.Plan, scenario)
	if err != nil {
		return nil, false, &BreakEvenError{Operation: op, Message: "failed to calculate scenario", Cause: err}
	}

	return summary, isFunded(summary, req.Constraints.IncludeProjects), nil
}

// isFunded reports whether the portfolio never empties after retirement
func isFunded(summary *domain.ScenarioSummary, includeProjects bool) bool {
	if includeProjects {
		return summary.DepletionAgeWithProjects == 0
	}
	return summary.DepletionAge == 0
}

func (s *Solver) newResult(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	base, funded, err := s.evaluate(ctx, req, "evaluate_base")
	if err != nil {
		return nil, err
	}
	return &OptimizationResult{
		Request:             req,
		Target:              req.Target,
		BaseScenarioSummary: base,
		BaseFunded:          funded,
		Iterations:          1,
	}, nil
}

// optimizeContribution finds the minimum monthly contribution that keeps the plan funded
func (s *Solver) optimizeContribution(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	const op = "optimize_contribution"
	current := req.BaseScenario.Parameters.MonthlyContribution

	result, err := s.newResult(ctx, req)
	if err != nil {
		return nil, err
	}

	lo := decimal.Zero
	if req.Constraints.MinContribution != nil {
		lo = *req.Constraints.MinContribution
	}
	hi := decimal.Max(current.Mul(decimal.NewFromInt(10)), req.BaseScenario.Parameters.DesiredRetirementIncome.Mul(decimal.NewFromInt(4)), decimal.NewFromInt(10000))
	if req.Constraints.MaxContribution != nil {
		hi = *req.Constraints.MaxContribution
	}

	at := func(c decimal.Decimal) (*domain.ScenarioSummary, bool, error) {
		result.Iterations++
		return s.evaluate(ctx, req, op, &transform.AdjustContribution{Delta: c.Sub(current)})
	}

	summary, funded, err := at(lo)
	if err != nil {
		return nil, err
	}
	if funded {
		return result.solvedContribution(lo, summary, "funded at the lower bound"), nil
	}

	summary, funded, err = at(hi)
	if err != nil {
		return nil, err
	}
	if !funded {
		result.ScenarioSummary = summary
		result.ConvergenceInfo = fmt.Sprintf("not funded even with a contribution of %s", hi.StringFixed(2))
		return result, nil
	}

	for hi.Sub(lo).GreaterThan(req.Tolerance) && result.Iterations < req.MaxIterations {
		mid := lo.Add(hi).Div(decimal.NewFromInt(2))
		_, funded, err := at(mid)
		if err != nil {
			return nil, err
		}
		if funded {
			hi = mid
		} else {
			lo = mid
		}
	}

	answer := hi.Mul(hundred).Ceil().Div(hundred)
	summary, _, err = at(answer)
	if err != nil {
		return nil, err
	}
	return result.solvedContribution(answer, summary, s.convergence(req, hi.Sub(lo))), nil
}

func (r *OptimizationResult) solvedContribution(c decimal.Decimal, summary *domain.ScenarioSummary, info string) *OptimizationResult {
	r.OptimalContribution = &c
	r.ScenarioSummary = summary
	r.Success = true
	r.ConvergenceInfo = info
	return r
}

// optimizeIncome finds the largest desired retirement income that keeps the plan funded
func (s *Solver) optimizeIncome(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	const op = "optimize_income"
	current := req.BaseScenario.Parameters.DesiredRetirementIncome

	result, err := s.newResult(ctx, req)
	if err != nil {
		return nil, err
	}

	lo := req.BaseScenario.Parameters.OtherIncome
	if req.Constraints.MinIncome != nil {
		lo = *req.Constraints.MinIncome
	}
	hi := decimal.Max(current.Mul(decimal.NewFromInt(10)), decimal.NewFromInt(100000))
	if req.Constraints.MaxIncome != nil {
		hi = *req.Constraints.MaxIncome
	}

	at := func(income decimal.Decimal) (*domain.ScenarioSummary, bool, error) {
		result.Iterations++
		return s.evaluate(ctx, req, op, &transform.AdjustDesiredIncome{Delta: income.Sub(current)})
	}

	summary, funded, err := at(lo)
	if err != nil {
		return nil, err
	}
	if !funded {
		result.ScenarioSummary = summary
		result.ConvergenceInfo = fmt.Sprintf("not funded even with a desired income of %s", lo.StringFixed(2))
		return result, nil
	}

	summary, funded, err = at(hi)
	if err != nil {
		return nil, err
	}
	if funded {
		return result.solvedIncome(hi, summary, "funded at the upper bound"), nil
	}

	for hi.Sub(lo).GreaterThan(req.Tolerance) && result.Iterations < req.MaxIterations {
		mid := lo.Add(hi).Div(decimal.NewFromInt(2))
		_, funded, err := at(mid)
		if err != nil {
			return nil, err
		}
		if funded {
			lo = mid
		} else {
			hi = mid
		}
	}

	answer := lo.Mul(hundred).Floor().Div(hundred)
	summary, _, err = at(answer)
	if err != nil {
		return nil, err
	}
	return result.solvedIncome(answer, summary, s.convergence(req, hi.Sub(lo))), nil
}

func (r *OptimizationResult) solvedIncome(income decimal.Decimal, summary *domain.ScenarioSummary, info string) *OptimizationResult {
	r.OptimalIncome = &income
	r.ScenarioSummary = summary
	r.Success = true
	r.ConvergenceInfo = info
	return r
}

// optimizeRetirementAge scans ages upward for the earliest funded retirement
func (s *Solver) optimizeRetirementAge(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	const op = "optimize_retirement_age"

	result, err := s.newResult(ctx, req)
	if err != nil {
		return nil, err
	}

	lo := result.BaseScenarioSummary.CurrentAge
	if lo < 1 {
		lo = 1
	}
	if req.Constraints.MinRetirementAge != nil {
		lo = *req.Constraints.MinRetirementAge
	}
	hi := result.BaseScenarioSummary.TerminalAge
	if req.Constraints.MaxRetirementAge != nil {
		hi = *req.Constraints.MaxRetirementAge
	}

	var last *domain.ScenarioSummary
	for age := lo; age <= hi; age++ {
		result.Iterations++
		summary, funded, err := s.evaluate(ctx, req, op, &transform.SetRetirementAge{Age: age})
		if err != nil {
			return nil, err
		}
		last = summary
		if funded {
			found := age
			result.OptimalRetirementAge = &found
			result.ScenarioSummary = summary
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("scanned ages %d to %d", lo, age)
			return result, nil
		}
	}

	result.ScenarioSummary = last
	result.ConvergenceInfo = fmt.Sprintf("no funded retirement age between %d and %d", lo, hi)
	return result, nil
}

func (s *Solver) convergence(req OptimizationRequest, width decimal.Decimal) string {
	if width.GreaterThan(req.Tolerance) {
		return fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}
	return fmt.Sprintf("Binary search converged within %s", req.Tolerance.StringFixed(2))
}
