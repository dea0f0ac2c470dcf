package domain

import (
	"github.com/shopspring/decimal"
)

// CashFlowProjection holds the yearly income/expense series.
// All slices share one length; they are empty when no birth date is known.
type CashFlowProjection struct {
	Categories []string          `json:"categories"`
	Years      []int             `json:"years"`
	Ages       []int             `json:"ages"`
	Incomes    []decimal.Decimal `json:"incomes"`
	Expenses   []decimal.Decimal `json:"expenses"`
	Balances   []decimal.Decimal `json:"balances"`
}

// Len returns the number of projected years
func (c *CashFlowProjection) Len() int {
	return len(c.Categories)
}

// DeficitYears lists the years whose balance is negative
func (c *CashFlowProjection) DeficitYears() []int {
	var out []int
	for i, b := range c.Balances {
		if b.IsNegative() {
			out = append(out, c.Years[i])
		}
	}
	return out
}

// ProjectEvent records where a project cost landed in the net worth series
type ProjectEvent struct {
	ProjectID string          `json:"project_id"`
	Name      string          `json:"name"`
	Year      int             `json:"year"`
	Month     int             `json:"month"` // index into the series, -1 when not applied
	Cost      decimal.Decimal `json:"cost"`
	Applied   bool            `json:"applied"`
}

// NetWorthProjection holds the monthly balance series.
// WithProjectsBalances is nil when the run had no projects.
type NetWorthProjection struct {
	Ages                 []int          `json:"ages"`
	Years                []string       `json:"years"`
	BaselineBalances     []float64      `json:"baseline_balances"`
	WithProjectsBalances []float64      `json:"with_projects_balances,omitempty"`
	ProjectEvents        []ProjectEvent `json:"project_events,omitempty"`
	MonthlyRate          float64        `json:"monthly_rate"`
}

// Len returns the number of simulated months
func (n *NetWorthProjection) Len() int {
	return len(n.Ages)
}

// IndexAtAge returns the first month recorded at the given age, or -1
func (n *NetWorthProjection) IndexAtAge(age int) int {
	for i, a := range n.Ages {
		if a == age {
			return i
		}
	}
	return -1
}

// ScenarioSummary condenses one scenario run into the figures shown on KPI cards
type ScenarioSummary struct {
	Name          string `json:"name"`
	CurrentAge    int    `json:"current_age"`
	RetirementAge int    `json:"retirement_age"`
	TerminalAge   int    `json:"terminal_age"`

	StartingBalance          decimal.Decimal `json:"starting_balance"`
	BalanceAtRetirement      decimal.Decimal `json:"balance_at_retirement"`
	PeakBalance              decimal.Decimal `json:"peak_balance"`
	FinalBalance             decimal.Decimal `json:"final_balance"`
	FinalBalanceWithProjects decimal.Decimal `json:"final_balance_with_projects"`
	TotalProjectCost         decimal.Decimal `json:"total_project_cost"`
	MonthlyContribution      decimal.Decimal `json:"monthly_contribution"`
	MonthlyWithdrawal        decimal.Decimal `json:"monthly_withdrawal"`

	// DepletionAge is the first age at which the baseline balance reaches zero after retirement, 0 if never
	DepletionAge             int  `json:"depletion_age"`
	DepletionAgeWithProjects int  `json:"depletion_age_with_projects"`
	Sustainable              bool `json:"sustainable"`

	CashFlow *CashFlowProjection `json:"cash_flow"`
	NetWorth *NetWorthProjection `json:"net_worth"`
}
