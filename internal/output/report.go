package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is the presentation model shared by every formatter
type Report struct {
	PlanID      string                       `json:"plan_id"`
	ProfileName string                       `json:"profile_name"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Assumptions domain.ProjectionAssumptions `json:"assumptions"`
	Scenarios   []*domain.ScenarioSummary    `json:"scenarios"`
	Projects    []domain.Project             `json:"projects,omitempty"`
}

// NewReport collects scenario summaries of one plan
func NewReport(plan *domain.Plan, a domain.ProjectionAssumptions, generatedAt time.Time, summaries ...*domain.ScenarioSummary) *Report {
	r := &Report{
		GeneratedAt: generatedAt,
		Assumptions: a,
		Scenarios:   summaries,
	}
	if plan != nil {
		r.PlanID = plan.Profile.ID
		r.ProfileName = plan.Profile.Name
		r.Projects = plan.Projects
	}
	return r
}

// AssumptionLines describes the modeling assumptions in plain text
func (r *Report) AssumptionLines() []string {
	a := r.Assumptions
	return []string{
		fmt.Sprintf("Portfolio return: %s annually, compounded monthly", FormatPercentage(a.AnnualReturnRate.Mul(decimal.NewFromInt(100)))),
		fmt.Sprintf("Default cash flow correction: %s per year", FormatPercentage(a.DefaultCorrectionRate.Mul(decimal.NewFromInt(100)))),
		fmt.Sprintf("Cash flow horizon: age %d when no life expectancy is recorded", a.CashFlowLifeExpectancy),
		fmt.Sprintf("Net worth horizon: age %d", a.TerminalAge),
		"Balances never go below zero; deficits are not carried as debt",
	}
}

// YearRow is one yearly sample of a scenario, used by tabular formatters
type YearRow struct {
	Age                 int
	Year                string
	Income              decimal.Decimal
	Expense             decimal.Decimal
	CashFlowBalance     decimal.Decimal
	HasCashFlow         bool
	NetWorth            float64
	NetWorthWithProject float64
}

// YearRows samples the net worth series at the first month of each age and joins the cash flow year
func YearRows(s *domain.ScenarioSummary) []YearRow {
	if s == nil || s.NetWorth == nil {
		return nil
	}
	nw := s.NetWorth

	cashByYear := map[string]int{}
	if s.CashFlow != nil {
		for i, y := range s.CashFlow.Years {
			cashByYear[fmt.Sprintf("%d", y)] = i
		}
	}

	var rows []YearRow
	for i := 0; i < nw.Len(); i += 12 {
		row := YearRow{Age: nw.Ages[i], Year: nw.Years[i], NetWorth: nw.BaselineBalances[i], NetWorthWithProject: nw.BaselineBalances[i]}
		if nw.WithProjectsBalances != nil {
			row.NetWorthWithProject = nw.WithProjectsBalances[i]
		}
		if j, ok := cashByYear[row.Year]; ok {
			row.HasCashFlow = true
			row.Income = s.CashFlow.Incomes[j]
			row.Expense = s.CashFlow.Expenses[j]
			row.CashFlowBalance = s.CashFlow.Balances[j]
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatCurrency formats a decimal as currency with thousands separators
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}

// FormatMoney formats a float balance as currency
func FormatMoney(v float64) string {
	return FormatCurrency(decimal.NewFromFloat(v))
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
