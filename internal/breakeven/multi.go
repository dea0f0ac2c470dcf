package breakeven

import (
	"context"
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
)

// OptimizeMultiDimensional solves every target for one scenario and summarizes the options
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	plan *domain.Plan,
	baseScenario *domain.Scenario,
	constraints Constraints,
) (*MultiDimensionalResult, error) {

	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	targets := []OptimizationTarget{
		OptimizeContribution,
		OptimizeIncome,
		OptimizeRetirementAge,
	}

	var results []OptimizationResult
	for _, target := range targets {
		result, err := s.Optimize(ctx, OptimizationRequest{
			Plan:          plan,
			BaseScenario:  baseScenario,
			Target:        target,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		})
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "optimize_multi_dimensional",
				Message:   fmt.Sprintf("solving %s failed", target),
				Cause:     err,
			}
		}
		results = append(results, *result)
	}

	multi := &MultiDimensionalResult{Results: results}
	multi.Recommendations = generateRecommendations(baseScenario, results)
	return multi, nil
}

// generateRecommendations turns solved targets into plain-language levers
func generateRecommendations(base *domain.Scenario, results []OptimizationResult) []string {
	recommendations := []string{}
	p := base.Parameters

	for _, r := range results {
		if !r.Success {
			continue
		}
		switch {
		case r.OptimalContribution != nil:
			diff := r.OptimalContribution.Sub(p.MonthlyContribution)
			if diff.IsPositive() {
				recommendations = append(recommendations,
					fmt.Sprintf("Contribution: save $%s more per month ($%s total)", diff.StringFixed(2), r.OptimalContribution.StringFixed(2)))
			} else {
				recommendations = append(recommendations,
					fmt.Sprintf("Contribution: the plan stays funded with as little as $%s per month", r.OptimalContribution.StringFixed(2)))
			}
		case r.OptimalIncome != nil:
			diff := r.OptimalIncome.Sub(p.DesiredRetirementIncome)
			if diff.IsNegative() {
				recommendations = append(recommendations,
					fmt.Sprintf("Income: reduce the desired retirement income to $%s per month", r.OptimalIncome.StringFixed(2)))
			} else {
				recommendations = append(recommendations,
					fmt.Sprintf("Income: up to $%s per month stays funded ($%s of headroom)", r.OptimalIncome.StringFixed(2), diff.StringFixed(2)))
			}
		case r.OptimalRetirementAge != nil:
			age := *r.OptimalRetirementAge
			switch {
			case age > p.RetirementAge:
				recommendations = append(recommendations,
					fmt.Sprintf("Timing: postpone retirement to age %d (%d years later)", age, age-p.RetirementAge))
			case age < p.RetirementAge:
				recommendations = append(recommendations,
					fmt.Sprintf("Timing: retirement at age %d is already funded (%d years earlier)", age, p.RetirementAge-age))
			default:
				recommendations = append(recommendations,
					fmt.Sprintf("Timing: age %d is the earliest funded retirement", age))
			}
		}
	}

	return recommendations
}
