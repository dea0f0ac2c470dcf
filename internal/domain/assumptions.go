package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxAge bounds every age and year span the projections accept
const MaxAge = 130

// ProjectionAssumptions collects the constants both projection engines depend on
type ProjectionAssumptions struct {
	// DefaultCorrectionRate applies to cash flow items without their own correction (fraction, 0.045 = 4.5%)
	DefaultCorrectionRate decimal.Decimal `yaml:"default_correction_rate" json:"default_correction_rate"`
	// AnnualReturnRate is the nominal portfolio return, compounded monthly
	AnnualReturnRate decimal.Decimal `yaml:"annual_return_rate" json:"annual_return_rate"`
	// CashFlowLifeExpectancy ends the cash flow horizon when the profile has none
	CashFlowLifeExpectancy int `yaml:"cash_flow_life_expectancy" json:"cash_flow_life_expectancy"`
	// TerminalAge ends the net worth horizon
	TerminalAge int `yaml:"terminal_age" json:"terminal_age"`
	// DefaultCurrentAge is used by the net worth projection when no birth date is known
	DefaultCurrentAge int `yaml:"default_current_age" json:"default_current_age"`
}

// DefaultProjectionAssumptions returns the documented defaults
func DefaultProjectionAssumptions() ProjectionAssumptions {
	return ProjectionAssumptions{
		DefaultCorrectionRate:  decimal.NewFromFloat(0.045),
		AnnualReturnRate:       decimal.NewFromFloat(0.06),
		CashFlowLifeExpectancy: 90,
		TerminalAge:            100,
		DefaultCurrentAge:      30,
	}
}

// MonthlyReturnRate converts the annual rate to its compounding-equivalent monthly rate
func (a ProjectionAssumptions) MonthlyReturnRate() float64 {
	return math.Pow(1+a.AnnualReturnRate.InexactFloat64(), 1.0/12.0) - 1
}

// Validate checks the assumptions are usable
func (a ProjectionAssumptions) Validate() error {
	if a.AnnualReturnRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("annual return rate must be greater than -100%%, got %s", a.AnnualReturnRate)
	}
	if a.DefaultCorrectionRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("default correction rate must be greater than -100%%, got %s", a.DefaultCorrectionRate)
	}
	if a.CashFlowLifeExpectancy <= 0 || a.CashFlowLifeExpectancy > MaxAge {
		return fmt.Errorf("cash flow life expectancy must be between 1 and %d, got %d", MaxAge, a.CashFlowLifeExpectancy)
	}
	if a.TerminalAge <= 0 || a.TerminalAge > MaxAge {
		return fmt.Errorf("terminal age must be between 1 and %d, got %d", MaxAge, a.TerminalAge)
	}
	if a.DefaultCurrentAge < 0 || a.DefaultCurrentAge >= a.TerminalAge {
		return fmt.Errorf("default current age must be between 0 and terminal age %d, got %d", a.TerminalAge, a.DefaultCurrentAge)
	}
	return nil
}

// AssumptionOverrides replaces individual assumptions for a plan or scenario
type AssumptionOverrides struct {
	DefaultCorrectionRate  *decimal.Decimal `yaml:"default_correction_rate,omitempty" json:"default_correction_rate,omitempty"`
	AnnualReturnRate       *decimal.Decimal `yaml:"annual_return_rate,omitempty" json:"annual_return_rate,omitempty"`
	CashFlowLifeExpectancy *int             `yaml:"cash_flow_life_expectancy,omitempty" json:"cash_flow_life_expectancy,omitempty"`
	TerminalAge            *int             `yaml:"terminal_age,omitempty" json:"terminal_age,omitempty"`
	DefaultCurrentAge      *int             `yaml:"default_current_age,omitempty" json:"default_current_age,omitempty"`
}

// Clone copies the overrides including pointed-to values
func (o AssumptionOverrides) Clone() AssumptionOverrides {
	out := AssumptionOverrides{}
	if o.DefaultCorrectionRate != nil {
		v := *o.DefaultCorrectionRate
		out.DefaultCorrectionRate = &v
	}
	if o.AnnualReturnRate != nil {
		v := *o.AnnualReturnRate
		out.AnnualReturnRate = &v
	}
	if o.CashFlowLifeExpectancy != nil {
		v := *o.CashFlowLifeExpectancy
		out.CashFlowLifeExpectancy = &v
	}
	if o.TerminalAge != nil {
		v := *o.TerminalAge
		out.TerminalAge = &v
	}
	if o.DefaultCurrentAge != nil {
		v := *o.DefaultCurrentAge
		out.DefaultCurrentAge = &v
	}
	return out
}

// WithOverrides returns a copy of a with every non-nil override applied
func (a ProjectionAssumptions) WithOverrides(o *AssumptionOverrides) ProjectionAssumptions {
	if o == nil {
		return a
	}
	if o.DefaultCorrectionRate != nil {
		a.DefaultCorrectionRate = *o.DefaultCorrectionRate
	}
	if o.AnnualReturnRate != nil {
		a.AnnualReturnRate = *o.AnnualReturnRate
	}
	if o.CashFlowLifeExpectancy != nil {
		a.CashFlowLifeExpectancy = *o.CashFlowLifeExpectancy
	}
	if o.TerminalAge != nil {
		a.TerminalAge = *o.TerminalAge
	}
	if o.DefaultCurrentAge != nil {
		a.DefaultCurrentAge = *o.DefaultCurrentAge
	}
	return a
}
