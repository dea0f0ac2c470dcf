package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FlowKind distinguishes income streams from expense streams
type FlowKind string

const (
	FlowIncome  FlowKind = "income"
	FlowExpense FlowKind = "expense"
)

// ParseFlowKind parses "income"/"expense" (the stored Portuguese labels are accepted too)
func ParseFlowKind(s string) (FlowKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "receita":
		return FlowIncome, nil
	case "expense", "despesa":
		return FlowExpense, nil
	default:
		return "", fmt.Errorf("unknown cash flow kind %q", s)
	}
}

// AnchorType says how CashFlowItem.Start is interpreted
type AnchorType string

const (
	AnchorYear AnchorType = "year" // Start is a calendar year
	AnchorAge  AnchorType = "age"  // Start is an age of the profile owner
)

// ParseAnchorType parses a start anchor label
func ParseAnchorType(s string) (AnchorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year", "ano", "":
		return AnchorYear, nil
	case "age", "idade":
		return AnchorAge, nil
	default:
		return "", fmt.Errorf("unknown start anchor %q", s)
	}
}

// CashFlowItem is one recurring income or expense stream.
// MonthlyAmount is expressed in the item's starting year and corrected once a year.
type CashFlowItem struct {
	ID               string           `yaml:"id,omitempty" json:"id,omitempty"`
	Description      string           `yaml:"description" json:"description"`
	Kind             FlowKind         `yaml:"kind" json:"kind"`
	MonthlyAmount    decimal.Decimal  `yaml:"monthly_amount" json:"monthly_amount"`
	StartType        AnchorType       `yaml:"start_type" json:"start_type"`
	Start            int              `yaml:"start" json:"start"`
	DurationYears    int              `yaml:"duration_years" json:"duration_years"`
	AnnualCorrection *decimal.Decimal `yaml:"annual_correction,omitempty" json:"annual_correction,omitempty"` // percent per year
}

// StartYear resolves the first calendar year the item is active
func (c CashFlowItem) StartYear(birthYear int) int {
	if c.StartType == AnchorAge {
		return birthYear + c.Start
	}
	return c.Start
}

// EndYear is the first calendar year the item is no longer active
func (c CashFlowItem) EndYear(birthYear int) int {
	return c.StartYear(birthYear) + c.DurationYears
}

// ActiveIn reports whether simYear falls in [start, start+duration)
func (c CashFlowItem) ActiveIn(simYear, birthYear int) bool {
	return c.StartYear(birthYear) <= simYear && simYear < c.EndYear(birthYear)
}

// CorrectionRate returns the item's yearly correction as a fraction, or fallback when unset
func (c CashFlowItem) CorrectionRate(fallback decimal.Decimal) decimal.Decimal {
	if c.AnnualCorrection == nil {
		return fallback
	}
	return c.AnnualCorrection.Div(decimal.NewFromInt(100))
}

func (k *FlowKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFlowKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (a *AnchorType) UnmarshalText(text []byte) error {
	parsed, err := ParseAnchorType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
