package calculation

import (
	"fmt"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// CashFlowInput is everything the cash flow projection reads
type CashFlowInput struct {
	Items          []domain.CashFlowItem `json:"items"`
	BirthDate      string                `json:"birth_date,omitempty"`
	LifeExpectancy int                   `json:"life_expectancy,omitempty"` // 0 uses the assumption default
	AsOf           time.Time             `json:"as_of"`                     // zero uses today
}

// ProjectCashFlow builds the yearly income, expense and balance series from the
// current age up to and including the life expectancy.
//
// Yearly totals are rounded to whole currency units before the balance is taken,
// so a balance can differ by one unit from rounding the unrounded difference.
// Balances are not clamped and go negative in deficit years.
func ProjectCashFlow(in CashFlowInput, a domain.ProjectionAssumptions) *domain.CashFlowProjection {
	out := &domain.CashFlowProjection{
		Categories: []string{},
		Years:      []int{},
		Ages:       []int{},
		Incomes:    []decimal.Decimal{},
		Expenses:   []decimal.Decimal{},
		Balances:   []decimal.Decimal{},
	}

	birth, ok := dateutil.ParseDate(in.BirthDate)
	if !ok {
		return out
	}

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = nowFunc()
	}

	lifeExpectancy := in.LifeExpectancy
	if lifeExpectancy <= 0 {
		lifeExpectancy = a.CashFlowLifeExpectancy
	}
	if lifeExpectancy > domain.MaxAge {
		lifeExpectancy = domain.MaxAge
	}

	currentAge := dateutil.Age(birth, asOf)
	yearsToSimulate := lifeExpectancy - currentAge
	if yearsToSimulate < 0 {
		return out
	}

	birthYear := birth.Year()
	currentYear := asOf.Year()

	for i := 0; i <= yearsToSimulate; i++ {
		simYear := currentYear + i
		income := decimal.Zero
		expense := decimal.Zero

		for _, item := range in.Items {
			value, active := CorrectedMonthlyValue(item, simYear, birthYear, a)
			if !active {
				continue
			}
			switch item.Kind {
			case domain.FlowIncome:
				income = income.Add(value)
			case domain.FlowExpense:
				expense = expense.Add(value)
			}
		}

		income = income.Round(0)
		expense = expense.Round(0)
		age := currentAge + i

		out.Categories = append(out.Categories, fmt.Sprintf("%d (%d)", simYear, age))
		out.Years = append(out.Years, simYear)
		out.Ages = append(out.Ages, age)
		out.Incomes = append(out.Incomes, income)
		out.Expenses = append(out.Expenses, expense)
		out.Balances = append(out.Balances, income.Sub(expense))
	}

	return out
}

// CorrectedMonthlyValue returns the item's monthly amount for simYear after annual
// correction, and whether the item is active that year at all.
// The value is the corrected monthly figure; it is not annualized.
func CorrectedMonthlyValue(item domain.CashFlowItem, simYear, birthYear int, a domain.ProjectionAssumptions) (decimal.Decimal, bool) {
	if !item.ActiveIn(simYear, birthYear) {
		return decimal.Zero, false
	}
	yearsActive := simYear - item.StartYear(birthYear)
	rate := item.CorrectionRate(a.DefaultCorrectionRate)
	return item.MonthlyAmount.Mul(compoundFactor(rate, yearsActive)), true
}

// compoundFactor returns (1+rate)^years for a non-negative whole number of years.
// Squaring keeps it exact and logarithmic in years.
func compoundFactor(rate decimal.Decimal, years int) decimal.Decimal {
	growth := decimal.NewFromInt(1).Add(rate)
	factor := decimal.NewFromInt(1)
	for years > 0 {
		if years&1 == 1 {
			factor = factor.Mul(growth)
		}
		years >>= 1
		if years > 0 {
			growth = growth.Mul(growth)
		}
	}
	return factor
}
