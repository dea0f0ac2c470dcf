package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestScenario() *domain.Scenario {
	return &domain.Scenario{
		Name: "base",
		Parameters: domain.SimulationParameters{
			CurrentAge:              38,
			CurrentNetWorth:         decimal.NewFromInt(50000),
			RetirementAge:           65,
			DesiredRetirementIncome: decimal.NewFromInt(15000),
			OtherIncome:             decimal.NewFromInt(2500),
			MonthlyContribution:     decimal.NewFromInt(2000),
		},
	}
}

func testProjects() []domain.Project {
	return []domain.Project{
		{ID: "apartment", Name: "Apartment", TotalCost: decimal.NewFromInt(300000), Priority: domain.PriorityEssential, TargetYear: 2029, Active: true},
		{ID: "car", Name: "Car", TotalCost: decimal.NewFromInt(80000), Priority: domain.PriorityDesire, TargetYear: 2027, Active: true},
		{ID: "sabbatical", Name: "Sabbatical", TotalCost: decimal.NewFromInt(120000), Priority: domain.PriorityDream, TargetAge: 50},
	}
}

func TestApplyTransforms_NilScenario(t *testing.T) {
	_, err := ApplyTransforms(nil, []ScenarioTransform{&PostponeRetirement{Years: 1}})
	assert.Error(t, err)
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotSame(t, base, result)
	assert.Equal(t, base.Name, result.Name)
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{&PostponeRetirement{Years: 1}, nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestScenario()
	result, err := ApplyTransforms(base, []ScenarioTransform{
		&PostponeRetirement{Years: 2},
		&AdjustContribution{Percent: decimal.NewFromInt(50)},
		&SetReturnRate{Rate: decimal.NewFromFloat(0.05)},
	})
	require.NoError(t, err)

	assert.Equal(t, 67, result.Parameters.RetirementAge)
	assert.True(t, result.Parameters.MonthlyContribution.Equal(decimal.NewFromInt(3000)))
	require.NotNil(t, result.Assumptions)
	assert.True(t, result.Assumptions.AnnualReturnRate.Equal(decimal.NewFromFloat(0.05)))

	// base untouched
	assert.Equal(t, 65, base.Parameters.RetirementAge)
	assert.True(t, base.Parameters.MonthlyContribution.Equal(decimal.NewFromInt(2000)))
	assert.Nil(t, base.Assumptions)
}

func TestApplyTransforms_ValidationFailureIsTyped(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{&SetRetirementAge{Age: 0}})
	require.Error(t, err)

	var te *TransformError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "set_retirement_age", te.TransformName)
	assert.Equal(t, "validate", te.Operation)
}

func TestParameterTransforms(t *testing.T) {
	tests := []struct {
		name      string
		transform ScenarioTransform
		check     func(t *testing.T, s *domain.Scenario)
		wantErr   bool
	}{
		{
			name:      "retire earlier",
			transform: &PostponeRetirement{Years: -5},
			check: func(t *testing.T, s *domain.Scenario) {
				assert.Equal(t, 60, s.Parameters.RetirementAge)
			},
		},
		{
			name:      "retirement age cannot reach zero",
			transform: &PostponeRetirement{Years: -65},
			wantErr:   true,
		},
		{
			name:      "absolute retirement age",
			transform: &SetRetirementAge{Age: 58},
			check: func(t *testing.T, s *domain.Scenario) {
				assert.Equal(t, 58, s.Parameters.RetirementAge)
			},
		},
		{
			name:      "contribution amount then percent",
			transform: &AdjustContribution{Delta: decimal.NewFromInt(500), Percent: decimal.NewFromInt(10)},
			check: func(t *testing.T, s *domain.Scenario) {
				assert.Equal(t, "2750", s.Parameters.MonthlyContribution.String())
			},
		},
		{
			name:      "contribution cannot go negative",
			transform: &AdjustContribution{Delta: decimal.NewFromInt(-2500)},
			wantErr:   true,
		},
		{
			name:      "desired income cut",
			transform: &AdjustDesiredIncome{Percent: decimal.NewFromInt(-10)},
			check: func(t *testing.T, s *domain.Scenario) {
				assert.Equal(t, "13500", s.Parameters.DesiredRetirementIncome.String())
			},
		},
		{
			name:      "other income",
			transform: &SetOtherIncome{Amount: decimal.NewFromInt(4000)},
			check: func(t *testing.T, s *domain.Scenario) {
				assert.Equal(t, "4000", s.Parameters.OtherIncome.String())
			},
		},
		{
			name:      "negative other income",
			transform: &SetOtherIncome{Amount: decimal.NewFromInt(-1)},
			wantErr:   true,
		},
		{
			name:      "lump sum",
			transform: &AddLumpSum{Amount: decimal.NewFromInt(25000)},
			check: func(t *testing.T, s *domain.Scenario) {
				assert.Equal(t, "75000", s.Parameters.CurrentNetWorth.String())
			},
		},
		{
			name:      "withdrawal larger than net worth",
			transform: &AddLumpSum{Amount: decimal.NewFromInt(-60000)},
			wantErr:   true,
		},
		{
			name:      "inflation override",
			transform: &SetInflation{Rate: decimal.NewFromFloat(0.07)},
			check: func(t *testing.T, s *domain.Scenario) {
				require.NotNil(t, s.Assumptions)
				assert.True(t, s.Assumptions.DefaultCorrectionRate.Equal(decimal.NewFromFloat(0.07)))
				assert.Nil(t, s.Assumptions.AnnualReturnRate)
			},
		},
		{
			name:      "return rate out of range",
			transform: &SetReturnRate{Rate: decimal.NewFromFloat(0.9)},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{tt.transform})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, result)
			assert.NotEmpty(t, tt.transform.Description())
		})
	}
}

func TestSetReturnRate_DoesNotAliasBaseOverrides(t *testing.T) {
	base := createTestScenario()
	rate := decimal.NewFromFloat(0.08)
	base.Assumptions = &domain.AssumptionOverrides{AnnualReturnRate: &rate}

	result, err := (&SetReturnRate{Rate: decimal.NewFromFloat(0.03)}).Apply(base)
	require.NoError(t, err)

	assert.True(t, base.Assumptions.AnnualReturnRate.Equal(decimal.NewFromFloat(0.08)))
	assert.True(t, result.Assumptions.AnnualReturnRate.Equal(decimal.NewFromFloat(0.03)))
}

func TestProjectTransforms(t *testing.T) {
	projects := testProjects()

	t.Run("activate materializes flags", func(t *testing.T) {
		result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
			&ActivateProject{ID: "sabbatical", Projects: projects},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"apartment", "car", "sabbatical"}, result.ActiveProjectIDs)
	})

	t.Run("activate is idempotent", func(t *testing.T) {
		base := createTestScenario()
		base.ActiveProjectIDs = []string{"car"}
		result, err := ApplyTransforms(base, []ScenarioTransform{&ActivateProject{ID: "car", Projects: projects}})
		require.NoError(t, err)
		assert.Equal(t, []string{"car"}, result.ActiveProjectIDs)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{&ActivateProject{ID: "boat", Projects: projects}})
		assert.Error(t, err)
	})

	t.Run("deactivate", func(t *testing.T) {
		result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
			&DeactivateProject{ID: "apartment", Projects: projects},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"car"}, result.ActiveProjectIDs)
	})

	t.Run("deactivating the last project leaves an empty list", func(t *testing.T) {
		base := createTestScenario()
		base.ActiveProjectIDs = []string{"car"}
		result, err := ApplyTransforms(base, []ScenarioTransform{&DeactivateProject{ID: "car", Projects: projects}})
		require.NoError(t, err)
		assert.NotNil(t, result.ActiveProjectIDs)
		assert.Empty(t, domain.ActiveProjects(projects, result.ActiveProjectIDs))
	})

	t.Run("limit priority", func(t *testing.T) {
		base := createTestScenario()
		base.ActiveProjectIDs = []string{"apartment", "car", "sabbatical"}
		result, err := ApplyTransforms(base, []ScenarioTransform{
			&LimitPriority{Max: domain.PriorityDesire, Projects: projects},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"apartment", "car"}, result.ActiveProjectIDs)
	})

	t.Run("clear", func(t *testing.T) {
		result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{&ClearProjects{}})
		require.NoError(t, err)
		assert.Equal(t, []string{}, result.ActiveProjectIDs)
	})
}

func TestRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry(testProjects())

	tests := []struct {
		spec    string
		want    ScenarioTransform
		wantErr string
	}{
		{spec: "postpone_retirement:years=2", want: &PostponeRetirement{Years: 2}},
		{spec: "set_retirement_age: age = 60", want: &SetRetirementAge{Age: 60}},
		{spec: "clear_projects", want: &ClearProjects{}},
		{spec: "postpone_retirement:months=2", wantErr: "requires 'years'"},
		{spec: "postpone_retirement:years=two", wantErr: "invalid years"},
		{spec: "adjust_contribution:", wantErr: "requires 'amount' or 'percent'"},
		{spec: "set_return_rate:rate", wantErr: "key=value"},
		{spec: "limit_priority:max=luxury", wantErr: "unknown project priority"},
		{spec: "teleport:years=1", wantErr: "unknown transform"},
		{spec: ":years=1", wantErr: "invalid transform spec"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ProjectFactoriesCarryCatalogue(t *testing.T) {
	registry := NewTransformRegistry(testProjects())

	tr, err := registry.ParseTransformSpec("limit_priority:max=essential")
	require.NoError(t, err)
	lp, ok := tr.(*LimitPriority)
	require.True(t, ok)
	assert.Len(t, lp.Projects, 3)
	assert.Equal(t, domain.PriorityEssential, lp.Max)

	tr, err = registry.ParseTransformSpec("adjust_desired_income:amount=-1000,percent=5")
	require.NoError(t, err)
	adj := tr.(*AdjustDesiredIncome)
	assert.Equal(t, "-1000", adj.Delta.String())
	assert.Equal(t, "5", adj.Percent.String())
}

func TestRegistry_ParseTransformSpecs(t *testing.T) {
	registry := NewTransformRegistry(nil)
	transforms, err := registry.ParseTransformSpecs("postpone_retirement:years=1; add_lump_sum:amount=1000;")
	require.NoError(t, err)
	require.Len(t, transforms, 2)
	assert.Equal(t, "add_lump_sum", transforms[1].Name())

	assert.Contains(t, registry.List(), "set_inflation")
}

func TestTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates(testProjects())

	for _, name := range []string{"retire_later", "retire_earlier", "save_more", "spend_less",
		"essentials_only", "conservative_returns", "high_inflation"} {
		t.Run(name, func(t *testing.T) {
			tmpl, ok := registry.Get(strings.ToUpper(name))
			require.True(t, ok)
			result, err := ApplyTemplate(createTestScenario(), tmpl)
			require.NoError(t, err)
			assert.NotNil(t, result)
		})
	}

	tmpl, _ := registry.Get("essentials_only")
	result, err := ApplyTemplate(createTestScenario(), tmpl)
	require.NoError(t, err)
	assert.Equal(t, []string{"apartment"}, result.ActiveProjectIDs)

	tmpl, _ = registry.Get("retire_earlier")
	result, err = ApplyTemplate(createTestScenario(), tmpl)
	require.NoError(t, err)
	assert.Equal(t, 62, result.Parameters.RetirementAge)
}

func TestParseTemplateList(t *testing.T) {
	assert.Nil(t, ParseTemplateList(""))
	assert.Equal(t, []string{"save_more", "retire_later"}, ParseTemplateList(" save_more, ,retire_later "))
}

func TestGetTemplateHelp(t *testing.T) {
	assert.Equal(t, "No templates registered", GetTemplateHelp(NewTemplateRegistry()))

	help := GetTemplateHelp(CreateBuiltInTemplates(nil))
	assert.Contains(t, help, "Retirement Timing:")
	assert.Contains(t, help, "essentials_only")
	assert.Less(t, strings.Index(help, "Retirement Timing"), strings.Index(help, "Market Assumptions"))
}
