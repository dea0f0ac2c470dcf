package domain

import (
	"github.com/shopspring/decimal"
)

// SimulationParameters drive the net-worth projection; every field is adjustable from the UI
type SimulationParameters struct {
	CurrentAge              int             `yaml:"current_age,omitempty" json:"current_age"`
	CurrentNetWorth         decimal.Decimal `yaml:"current_net_worth" json:"current_net_worth"`
	RetirementAge           int             `yaml:"retirement_age" json:"retirement_age"`
	DesiredRetirementIncome decimal.Decimal `yaml:"desired_retirement_income" json:"desired_retirement_income"` // monthly
	OtherIncome             decimal.Decimal `yaml:"other_income" json:"other_income"`                           // monthly, outside the portfolio
	MonthlyContribution     decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution"`

	// NetWorthFixed keeps a zero CurrentNetWorth from falling back to the balance sheet
	NetWorthFixed bool `yaml:"-" json:"-"`
}

// MonthlyWithdrawal is the portfolio draw once retired, never negative
func (s SimulationParameters) MonthlyWithdrawal() decimal.Decimal {
	w := s.DesiredRetirementIncome.Sub(s.OtherIncome)
	if w.IsNegative() {
		return decimal.Zero
	}
	return w
}

// Scenario is a named set of simulation parameters tied to a profile
type Scenario struct {
	Name             string               `yaml:"name" json:"name"`
	Description      string               `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters       SimulationParameters `yaml:"parameters" json:"parameters"`
	ActiveProjectIDs []string             `yaml:"active_projects,omitempty" json:"active_projects,omitempty"`
	Assumptions      *AssumptionOverrides `yaml:"assumptions,omitempty" json:"assumptions,omitempty"`
}

// Clone returns a deep copy safe to mutate
func (s *Scenario) Clone() *Scenario {
	out := *s
	if s.ActiveProjectIDs != nil {
		out.ActiveProjectIDs = append([]string{}, s.ActiveProjectIDs...)
	}
	if s.Assumptions != nil {
		o := s.Assumptions.Clone()
		out.Assumptions = &o
	}
	return &out
}
