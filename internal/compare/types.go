package compare

import (
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                  `json:"scenarioName"`
	Description  string                  `json:"description,omitempty"`
	Summary      *domain.ScenarioSummary `json:"-"`

	// Key Metrics
	RetirementAge            int             `json:"retirementAge"`
	MonthlyContribution      decimal.Decimal `json:"monthlyContribution"`
	MonthlyWithdrawal        decimal.Decimal `json:"monthlyWithdrawal"`
	BalanceAtRetirement      decimal.Decimal `json:"balanceAtRetirement"`
	PeakBalance              decimal.Decimal `json:"peakBalance"`
	FinalBalance             decimal.Decimal `json:"finalBalance"`
	FinalBalanceWithProjects decimal.Decimal `json:"finalBalanceWithProjects"`
	TotalProjectCost         decimal.Decimal `json:"totalProjectCost"`
	FundedYears              int             `json:"fundedYears"` // years until depletion, or until the terminal age
	DepletionAge             int             `json:"depletionAge"`
	DeficitYears             int             `json:"deficitYears"` // cash flow years with a negative balance
	Sustainable              bool            `json:"sustainable"`

	// Comparison to Base
	FinalBalanceDiff        decimal.Decimal `json:"finalBalanceDiff"`
	FinalBalancePctFromBase decimal.Decimal `json:"finalBalancePctFromBase"`
	RetirementBalanceDiff   decimal.Decimal `json:"retirementBalanceDiff"`
	FundedYearsDiff         int             `json:"fundedYearsDiff"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	PlanID             string             `json:"planId,omitempty"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	PlanPath           string             `json:"planPath,omitempty"`
}

// MetricsCalculator extracts key metrics from scenario summaries
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario summary
func (mc *MetricsCalculator) CalculateMetrics(summary *domain.ScenarioSummary) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:             summary.Name,
		Summary:                  summary,
		RetirementAge:            summary.RetirementAge,
		MonthlyContribution:      summary.MonthlyContribution,
		MonthlyWithdrawal:        summary.MonthlyWithdrawal,
		BalanceAtRetirement:      summary.BalanceAtRetirement,
		PeakBalance:              summary.PeakBalance,
		FinalBalance:             summary.FinalBalance,
		FinalBalanceWithProjects: summary.FinalBalanceWithProjects,
		TotalProjectCost:         summary.TotalProjectCost,
		DepletionAge:             summary.DepletionAge,
		FundedYears:              mc.fundedYears(summary),
		Sustainable:              summary.Sustainable,
	}
	if summary.CashFlow != nil {
		result.DeficitYears = len(summary.CashFlow.DeficitYears())
	}
	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.FinalBalanceDiff = scenario.FinalBalance.Sub(base.FinalBalance)
	if !base.FinalBalance.IsZero() {
		scenario.FinalBalancePctFromBase = scenario.FinalBalanceDiff.
			Div(base.FinalBalance).
			Mul(decimal.NewFromInt(100))
	}
	scenario.RetirementBalanceDiff = scenario.BalanceAtRetirement.Sub(base.BalanceAtRetirement)
	scenario.FundedYearsDiff = scenario.FundedYears - base.FundedYears

	return scenario
}

// fundedYears counts the years the baseline portfolio lasts from today
func (mc *MetricsCalculator) fundedYears(summary *domain.ScenarioSummary) int {
	end := summary.TerminalAge
	if summary.DepletionAge > 0 {
		end = summary.DepletionAge
	}
	if end < summary.CurrentAge {
		return 0
	}
	return end - summary.CurrentAge
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	bestFinal := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalBalance.GreaterThan(bestFinal.FinalBalance) {
			bestFinal = alt
		}
	}
	if bestFinal != base {
		diff := bestFinal.FinalBalance.Sub(base.FinalBalance)
		recommendations = append(recommendations,
			"Largest Legacy: "+bestFinal.ScenarioName+" ends with $"+diff.StringFixed(0)+
				" more than the base scenario")
	}

	bestFunded := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FundedYears > bestFunded.FundedYears {
			bestFunded = alt
		}
	}
	if bestFunded != base {
		recommendations = append(recommendations,
			"Best Longevity: "+bestFunded.ScenarioName+" keeps the portfolio funded "+
				fmt.Sprintf("%d years longer", bestFunded.FundedYears-base.FundedYears))
	}

	if !base.Sustainable {
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.Sustainable {
				recommendations = append(recommendations,
					"Sustainability: "+alt.ScenarioName+" avoids depleting the portfolio (base runs out at age "+
						fmt.Sprintf("%d)", base.DepletionAge))
				break
			}
		}
	}

	if base.FinalBalanceWithProjects.IsZero() && base.TotalProjectCost.IsPositive() {
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.FinalBalanceWithProjects.IsPositive() {
				recommendations = append(recommendations,
					"Projects: "+alt.ScenarioName+" keeps the active projects affordable")
				break
			}
		}
	}

	return recommendations
}
