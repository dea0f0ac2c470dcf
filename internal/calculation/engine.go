package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine runs both projections for a plan and condenses the results
type CalculationEngine struct {
	Assumptions domain.ProjectionAssumptions
	Cache       *ProjectionCache // optional memoization
	Debug       bool             // log per-run details
	Logger      Logger
}

// NewCalculationEngine creates an engine with the default assumptions and no cache
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Assumptions: domain.DefaultProjectionAssumptions(),
		Logger:      NopLogger{},
	}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// WithCache attaches a memo cache and returns the engine
func (ce *CalculationEngine) WithCache(c *ProjectionCache) *CalculationEngine {
	ce.Cache = c
	return ce
}

// ProjectCashFlow runs the cash flow projection, consulting the cache when present
func (ce *CalculationEngine) ProjectCashFlow(in CashFlowInput, a domain.ProjectionAssumptions) *domain.CashFlowProjection {
	if in.AsOf.IsZero() {
		in.AsOf = nowFunc()
	}
	if ce.Cache == nil {
		return ProjectCashFlow(in, a)
	}

	key, err := CashFlowKey(in, a)
	if err != nil {
		ce.Logger.Warnf("cash flow cache key: %v", err)
		return ProjectCashFlow(in, a)
	}
	if v, ok := ce.Cache.Get(key); ok {
		if cf, ok := v.(*domain.CashFlowProjection); ok {
			return cf
		}
	}
	cf := ProjectCashFlow(in, a)
	ce.Cache.Put(key, cf)
	return cf
}

// ProjectNetWorth runs the net worth projection, consulting the cache when present
func (ce *CalculationEngine) ProjectNetWorth(in NetWorthInput, a domain.ProjectionAssumptions) *domain.NetWorthProjection {
	if in.CurrentYear == 0 {
		in.CurrentYear = nowFunc().Year()
	}
	if ce.Cache == nil {
		return ProjectNetWorth(in, a)
	}

	key, err := NetWorthKey(in, a)
	if err != nil {
		ce.Logger.Warnf("net worth cache key: %v", err)
		return ProjectNetWorth(in, a)
	}
	if v, ok := ce.Cache.Get(key); ok {
		if nw, ok := v.(*domain.NetWorthProjection); ok {
			return nw
		}
	}
	nw := ProjectNetWorth(in, a)
	ce.Cache.Put(key, nw)
	return nw
}

// RunScenarioByName runs the named scenario of a plan (the first one when name is empty)
func (ce *CalculationEngine) RunScenarioByName(ctx context.Context, plan *domain.Plan, name string) (*domain.ScenarioSummary, error) {
	scenario, err := plan.FindScenario(name)
	if err != nil {
		return nil, err
	}
	return ce.RunScenario(ctx, plan, scenario)
}

// RunScenario projects cash flow and net worth for one scenario of a plan
func (ce *CalculationEngine) RunScenario(ctx context.Context, plan *domain.Plan, scenario *domain.Scenario) (*domain.ScenarioSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if plan == nil || scenario == nil {
		return nil, fmt.Errorf("plan and scenario are required")
	}

	a := plan.EffectiveAssumptions(ce.Assumptions, scenario)
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assumptions for scenario %s: %w", scenario.Name, err)
	}

	asOf := nowFunc()
	params := ce.ResolveParameters(plan, scenario, asOf, a)

	cf := ce.ProjectCashFlow(CashFlowInput{
		Items:          plan.CashFlowItems,
		BirthDate:      plan.Profile.BirthDate,
		LifeExpectancy: plan.Profile.LifeExpectancy,
		AsOf:           asOf,
	}, a)

	nw := ce.ProjectNetWorth(NetWorthInput{
		Parameters:       params,
		Projects:         plan.Projects,
		ActiveProjectIDs: scenario.ActiveProjectIDs,
		CurrentYear:      asOf.Year(),
	}, a)

	summary := Summarize(scenario.Name, params, a, cf, nw)

	if ce.Debug {
		ce.Logger.Debugf("scenario %s: age %d, %d months, %d cash flow years, final balance %s",
			scenario.Name, params.CurrentAge, nw.Len(), cf.Len(), summary.FinalBalance.StringFixed(2))
	}
	if !summary.Sustainable {
		ce.Logger.Infof("scenario %s: portfolio depleted at age %d", scenario.Name, summary.DepletionAge)
	}

	return summary, nil
}

// ResolveParameters fills in the values a scenario leaves implicit.
// The profile birth date decides the current age; without one the scenario's own
// current age is used, then the assumption default. A zero starting net worth is
// replaced by the balance sheet total when the plan records holdings.
func (ce *CalculationEngine) ResolveParameters(plan *domain.Plan, scenario *domain.Scenario, asOf time.Time, a domain.ProjectionAssumptions) domain.SimulationParameters {
	params := scenario.Parameters

	switch {
	case plan.Profile.HasBirthDate():
		params.CurrentAge = plan.Profile.Age(asOf)
	case params.CurrentAge > 0:
	default:
		ce.Logger.Warnf("profile %s has no birth date, assuming current age %d", plan.Profile.ID, a.DefaultCurrentAge)
		params.CurrentAge = a.DefaultCurrentAge
	}

	if params.CurrentNetWorth.IsZero() && !params.NetWorthFixed && !plan.BalanceSheet.IsEmpty() {
		params.CurrentNetWorth = plan.BalanceSheet.NetWorth()
	}

	return params
}

// Summarize extracts the KPI figures from a pair of projections
func Summarize(name string, params domain.SimulationParameters, a domain.ProjectionAssumptions,
	cf *domain.CashFlowProjection, nw *domain.NetWorthProjection) *domain.ScenarioSummary {

	currentAge := params.CurrentAge
	if currentAge <= 0 {
		currentAge = a.DefaultCurrentAge
	}

	s := &domain.ScenarioSummary{
		Name:                name,
		CurrentAge:          currentAge,
		RetirementAge:       params.RetirementAge,
		TerminalAge:         a.TerminalAge,
		StartingBalance:     params.CurrentNetWorth,
		MonthlyContribution: params.MonthlyContribution,
		MonthlyWithdrawal:   params.MonthlyWithdrawal(),
		CashFlow:            cf,
		NetWorth:            nw,
	}

	start := params.CurrentNetWorth.InexactFloat64()
	baseline := nw.BaselineBalances

	s.BalanceAtRetirement = money(balanceAtAge(nw, baseline, params.RetirementAge, start))
	s.FinalBalance = money(lastOr(baseline, start))

	peak := start
	for _, b := range baseline {
		if b > peak {
			peak = b
		}
	}
	s.PeakBalance = money(peak)
	s.DepletionAge = depletionAge(nw.Ages, baseline, params.RetirementAge)
	s.Sustainable = s.DepletionAge == 0

	if nw.WithProjectsBalances != nil {
		s.FinalBalanceWithProjects = money(lastOr(nw.WithProjectsBalances, start))
		s.DepletionAgeWithProjects = depletionAge(nw.Ages, nw.WithProjectsBalances, params.RetirementAge)
	} else {
		s.FinalBalanceWithProjects = s.FinalBalance
		s.DepletionAgeWithProjects = s.DepletionAge
	}

	total := decimal.Zero
	for _, ev := range nw.ProjectEvents {
		if ev.Applied {
			total = total.Add(ev.Cost)
		}
	}
	s.TotalProjectCost = total

	return s
}

// balanceAtAge returns the first balance recorded at age, or the nearest end of the series
func balanceAtAge(nw *domain.NetWorthProjection, series []float64, age int, start float64) float64 {
	if len(series) == 0 {
		return start
	}
	if idx := nw.IndexAtAge(age); idx >= 0 {
		return series[idx]
	}
	if age < nw.Ages[0] {
		return start
	}
	return series[len(series)-1]
}

// depletionAge is the first age at or after retirement with an empty portfolio, 0 if never
func depletionAge(ages []int, series []float64, retirementAge int) int {
	for i, b := range series {
		if ages[i] >= retirementAge && b <= 0 {
			return ages[i]
		}
	}
	return 0
}

func lastOr(series []float64, fallback float64) float64 {
	if len(series) == 0 {
		return fallback
	}
	return series[len(series)-1]
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
