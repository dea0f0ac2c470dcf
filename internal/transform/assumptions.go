package transform

import (
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// SetReturnRate overrides the annual portfolio return for one scenario.
type SetReturnRate struct {
	Rate decimal.Decimal // e.g. 0.04 for 4%
}

func (sr *SetReturnRate) Name() string {
	return "set_return_rate"
}

func (sr *SetReturnRate) Description() string {
	return fmt.Sprintf("Assume %s%% annual return", sr.Rate.Mul(hundred).StringFixed(1))
}

func (sr *SetReturnRate) Validate(base *domain.Scenario) error {
	if err := requireBase(sr.Name(), base); err != nil {
		return err
	}
	if sr.Rate.LessThan(decimal.NewFromFloat(-0.5)) || sr.Rate.GreaterThan(decimal.NewFromFloat(0.3)) {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("return rate must be between -0.5 and 0.3, got %s", sr.Rate), nil)
	}
	return nil
}

func (sr *SetReturnRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	if modified.Assumptions == nil {
		modified.Assumptions = &domain.AssumptionOverrides{}
	}
	rate := sr.Rate
	modified.Assumptions.AnnualReturnRate = &rate
	return modified, nil
}

// SetInflation overrides the default yearly correction of cash flow items.
type SetInflation struct {
	Rate decimal.Decimal
}

func (si *SetInflation) Name() string {
	return "set_inflation"
}

func (si *SetInflation) Description() string {
	return fmt.Sprintf("Assume %s%% yearly correction for uncorrected items", si.Rate.Mul(hundred).StringFixed(1))
}

func (si *SetInflation) Validate(base *domain.Scenario) error {
	if err := requireBase(si.Name(), base); err != nil {
		return err
	}
	if si.Rate.LessThan(decimal.Zero) || si.Rate.GreaterThan(decimal.NewFromFloat(0.5)) {
		return NewTransformError(si.Name(), "validate", fmt.Sprintf("inflation must be between 0 and 0.5, got %s", si.Rate), nil)
	}
	return nil
}

func (si *SetInflation) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	if modified.Assumptions == nil {
		modified.Assumptions = &domain.AssumptionOverrides{}
	}
	rate := si.Rate
	modified.Assumptions.DefaultCorrectionRate = &rate
	return modified, nil
}
