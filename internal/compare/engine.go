package compare

import (
	"context"
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario, first scenario when empty
	Templates        []string // Template names to apply to the base
	TransformSpecs   []string // Ad-hoc "name:k=v" transforms, each run as its own alternative
}

// Compare runs the base scenario and one alternative per template or transform spec
func (ce *CompareEngine) Compare(ctx context.Context, plan *domain.Plan, options CompareOptions) (*ComparisonSet, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}

	baseScenario, err := plan.FindScenario(options.BaseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("base scenario %s not found in plan: %w", options.BaseScenarioName, err)
	}

	baseSummary, err := ce.CalcEngine.RunScenario(ctx, plan, baseScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseSummary)
	baseResult.Description = baseScenario.Description

	templates := transform.CreateBuiltInTemplates(plan.Projects)
	alternatives := []ComparisonResult{}

	run := func(label, description string, transforms []transform.ScenarioTransform) error {
		modified, err := transform.ApplyTransforms(baseScenario, transforms)
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", label, err)
		}
		modified.Name = baseScenario.Name + "_" + label

		altSummary, err := ce.CalcEngine.RunScenario(ctx, plan, modified)
		if err != nil {
			return fmt.Errorf("failed to calculate scenario %s: %w", label, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(altSummary)
		altResult.Description = description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
		return nil
	}

	for _, templateName := range options.Templates {
		template, ok := templates.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}
		if err := run(template.Name, template.Description, template.Transforms); err != nil {
			return nil, err
		}
	}

	registry := transform.NewTransformRegistry(plan.Projects)
	for _, spec := range options.TransformSpecs {
		transforms, err := registry.ParseTransformSpecs(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		if len(transforms) == 0 {
			continue
		}
		label := transforms[0].Name()
		if err := run(label, describeAll(transforms), transforms); err != nil {
			return nil, err
		}
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		PlanID:             plan.Profile.ID,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareScenarios compares scenarios already defined in the plan
func (ce *CompareEngine) CompareScenarios(ctx context.Context, plan *domain.Plan, baseScenarioName string, alternativeScenarioNames []string) (*ComparisonSet, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}

	baseScenario, err := plan.FindScenario(baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("base scenario %s not found: %w", baseScenarioName, err)
	}
	baseSummary, err := ce.CalcEngine.RunScenario(ctx, plan, baseScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseSummary)
	baseResult.Description = baseScenario.Description

	alternatives := []ComparisonResult{}
	for _, altName := range alternativeScenarioNames {
		if altName == "" {
			continue
		}
		scenario, err := plan.FindScenario(altName)
		if err != nil {
			return nil, fmt.Errorf("alternative scenario %s not found: %w", altName, err)
		}
		summary, err := ce.CalcEngine.RunScenario(ctx, plan, scenario)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", altName, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(summary)
		altResult.Description = scenario.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		PlanID:             plan.Profile.ID,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func describeAll(transforms []transform.ScenarioTransform) string {
	desc := ""
	for i, t := range transforms {
		if i > 0 {
			desc += "; "
		}
		desc += t.Description()
	}
	return desc
}
