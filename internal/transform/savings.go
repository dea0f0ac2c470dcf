package transform

import (
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// scale returns (v + delta) * (1 + percent/100)
func scale(v, delta, percent decimal.Decimal) decimal.Decimal {
	return v.Add(delta).Mul(decimal.NewFromInt(1).Add(percent.Div(hundred)))
}

func describeChange(what string, delta, percent decimal.Decimal) string {
	switch {
	case !delta.IsZero() && !percent.IsZero():
		return fmt.Sprintf("Change %s by %s then %s%%", what, delta.StringFixed(2), percent.StringFixed(1))
	case !percent.IsZero():
		return fmt.Sprintf("Change %s by %s%%", what, percent.StringFixed(1))
	default:
		return fmt.Sprintf("Change %s by %s", what, delta.StringFixed(2))
	}
}

// AdjustContribution changes the pre-retirement monthly contribution
// by a fixed amount and/or a percentage.
type AdjustContribution struct {
	Delta   decimal.Decimal
	Percent decimal.Decimal
}

func (ac *AdjustContribution) Name() string {
	return "adjust_contribution"
}

func (ac *AdjustContribution) Description() string {
	return describeChange("monthly contribution", ac.Delta, ac.Percent)
}

func (ac *AdjustContribution) Validate(base *domain.Scenario) error {
	if err := requireBase(ac.Name(), base); err != nil {
		return err
	}
	if scale(base.Parameters.MonthlyContribution, ac.Delta, ac.Percent).IsNegative() {
		return NewTransformError(ac.Name(), "validate", "resulting contribution would be negative", nil)
	}
	return nil
}

func (ac *AdjustContribution) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	modified.Parameters.MonthlyContribution = scale(base.Parameters.MonthlyContribution, ac.Delta, ac.Percent).Round(2)
	return modified, nil
}

// AdjustDesiredIncome changes the desired monthly retirement income.
type AdjustDesiredIncome struct {
	Delta   decimal.Decimal
	Percent decimal.Decimal
}

func (ad *AdjustDesiredIncome) Name() string {
	return "adjust_desired_income"
}

func (ad *AdjustDesiredIncome) Description() string {
	return describeChange("desired retirement income", ad.Delta, ad.Percent)
}

func (ad *AdjustDesiredIncome) Validate(base *domain.Scenario) error {
	if err := requireBase(ad.Name(), base); err != nil {
		return err
	}
	if scale(base.Parameters.DesiredRetirementIncome, ad.Delta, ad.Percent).IsNegative() {
		return NewTransformError(ad.Name(), "validate", "resulting income would be negative", nil)
	}
	return nil
}

func (ad *AdjustDesiredIncome) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	modified.Parameters.DesiredRetirementIncome = scale(base.Parameters.DesiredRetirementIncome, ad.Delta, ad.Percent).Round(2)
	return modified, nil
}

// SetOtherIncome sets the monthly non-portfolio income received in retirement.
type SetOtherIncome struct {
	Amount decimal.Decimal
}

func (so *SetOtherIncome) Name() string {
	return "set_other_income"
}

func (so *SetOtherIncome) Description() string {
	return fmt.Sprintf("Set other retirement income to %s per month", so.Amount.StringFixed(2))
}

func (so *SetOtherIncome) Validate(base *domain.Scenario) error {
	if err := requireBase(so.Name(), base); err != nil {
		return err
	}
	if so.Amount.IsNegative() {
		return NewTransformError(so.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (so *SetOtherIncome) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	modified.Parameters.OtherIncome = so.Amount
	return modified, nil
}

// AddLumpSum adds (or with a negative amount removes) money from the starting balance.
type AddLumpSum struct {
	Amount decimal.Decimal
}

func (al *AddLumpSum) Name() string {
	return "add_lump_sum"
}

func (al *AddLumpSum) Description() string {
	return fmt.Sprintf("Add %s to the starting net worth", al.Amount.StringFixed(2))
}

func (al *AddLumpSum) Validate(base *domain.Scenario) error {
	if err := requireBase(al.Name(), base); err != nil {
		return err
	}
	if base.Parameters.CurrentNetWorth.Add(al.Amount).IsNegative() {
		return NewTransformError(al.Name(), "validate", "resulting net worth would be negative", nil)
	}
	return nil
}

func (al *AddLumpSum) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	modified.Parameters.CurrentNetWorth = base.Parameters.CurrentNetWorth.Add(al.Amount)
	return modified, nil
}
