package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	categoryTiming      = "Retirement Timing"
	categorySavings     = "Savings & Spending"
	categoryProjects    = "Projects"
	categoryAssumptions = "Market Assumptions"
	categoryCombination = "Combination Strategies"
)

var templateCategories = []string{categoryTiming, categorySavings, categoryProjects, categoryAssumptions, categoryCombination}

// CreateBuiltInTemplates creates a template registry with common planning what-ifs.
// projects is the plan catalogue used by the project templates.
func CreateBuiltInTemplates(projects []domain.Project) *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "retire_later",
		Category:    categoryTiming,
		Description: "Postpone retirement by 3 years",
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: 3}},
	})

	registry.Register(Template{
		Name:        "retire_earlier",
		Category:    categoryTiming,
		Description: "Retire 3 years earlier",
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: -3}},
	})

	registry.Register(Template{
		Name:        "save_more",
		Category:    categorySavings,
		Description: "Increase the monthly contribution by 25%",
		Transforms:  []ScenarioTransform{&AdjustContribution{Percent: decimal.NewFromInt(25)}},
	})

	registry.Register(Template{
		Name:        "spend_less",
		Category:    categorySavings,
		Description: "Reduce the desired retirement income by 10%",
		Transforms:  []ScenarioTransform{&AdjustDesiredIncome{Percent: decimal.NewFromInt(-10)}},
	})

	registry.Register(Template{
		Name:        "essentials_only",
		Category:    categoryProjects,
		Description: "Keep only essential projects",
		Transforms:  []ScenarioTransform{&LimitPriority{Max: domain.PriorityEssential, Projects: projects}},
	})

	registry.Register(Template{
		Name:        "no_projects",
		Category:    categoryProjects,
		Description: "Run without any project",
		Transforms:  []ScenarioTransform{&ClearProjects{}},
	})

	registry.Register(Template{
		Name:        "conservative_returns",
		Category:    categoryAssumptions,
		Description: "Assume a 4% annual return",
		Transforms:  []ScenarioTransform{&SetReturnRate{Rate: decimal.NewFromFloat(0.04)}},
	})

	registry.Register(Template{
		Name:        "high_inflation",
		Category:    categoryAssumptions,
		Description: "Assume 7% yearly correction for uncorrected cash flow items",
		Transforms:  []ScenarioTransform{&SetInflation{Rate: decimal.NewFromFloat(0.07)}},
	})

	registry.Register(Template{
		Name:        "work_longer_save_more",
		Category:    categoryCombination,
		Description: "Postpone retirement 2 years and save 15% more",
		Transforms: []ScenarioTransform{
			&PostponeRetirement{Years: 2},
			&AdjustContribution{Percent: decimal.NewFromInt(15)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}
	if len(template.Transforms) == 0 {
		return base.Clone(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	byCategory := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := t.Category
		if category == "" {
			category = categoryCombination
		}
		byCategory[category] = append(byCategory[category], t)
	}

	for _, category := range templateCategories {
		templates := byCategory[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  planner compare plan.yaml --with retire_later,save_more\n")
	sb.WriteString("  planner compare plan.yaml --scenario base --with essentials_only\n")

	return sb.String()
}
