package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands
// and HTTP query strings.
type TransformRegistry struct {
	factories map[string]TransformFactory
	projects  []domain.Project
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
// projects is the plan catalogue used by the project transforms.
func NewTransformRegistry(projects []domain.Project) *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
		projects:  projects,
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_age", createSetRetirementAge)
	registry.Register("adjust_contribution", createAdjustContribution)
	registry.Register("adjust_desired_income", createAdjustDesiredIncome)
	registry.Register("set_other_income", createSetOtherIncome)
	registry.Register("add_lump_sum", createAddLumpSum)
	registry.Register("set_return_rate", createSetReturnRate)
	registry.Register("set_inflation", createSetInflation)

	// Project transforms need the plan catalogue
	registry.Register("activate_project", registry.createActivateProject)
	registry.Register("deactivate_project", registry.createDeactivateProject)
	registry.Register("limit_priority", registry.createLimitPriority)
	registry.Register("clear_projects", func(map[string]string) (ScenarioTransform, error) {
		return &ClearProjects{}, nil
	})

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_contribution:percent=20"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %q", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses several specs separated by ';'
func (r *TransformRegistry) ParseTransformSpecs(specs string) ([]ScenarioTransform, error) {
	var transforms []ScenarioTransform
	for _, spec := range strings.Split(specs, ";") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	s, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func intParam(transform string, params map[string]string, key string) (int, error) {
	s, err := requireParam(transform, params, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// optionalDecimal returns zero when the key is absent
func optionalDecimal(params map[string]string, key string) (decimal.Decimal, error) {
	s, ok := params[key]
	if !ok || s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// Factory functions for each transform

func createPostponeRetirement(params map[string]string) (ScenarioTransform, error) {
	years, err := intParam("postpone_retirement", params, "years")
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam("set_retirement_age", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetRetirementAge{Age: age}, nil
}

func amountOrPercent(transform string, params map[string]string) (decimal.Decimal, decimal.Decimal, error) {
	delta, err := optionalDecimal(params, "amount")
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	percent, err := optionalDecimal(params, "percent")
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if _, hasAmount := params["amount"]; !hasAmount {
		if _, hasPercent := params["percent"]; !hasPercent {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%s requires 'amount' or 'percent' parameter", transform)
		}
	}
	return delta, percent, nil
}

func createAdjustContribution(params map[string]string) (ScenarioTransform, error) {
	delta, percent, err := amountOrPercent("adjust_contribution", params)
	if err != nil {
		return nil, err
	}
	return &AdjustContribution{Delta: delta, Percent: percent}, nil
}

func createAdjustDesiredIncome(params map[string]string) (ScenarioTransform, error) {
	delta, percent, err := amountOrPercent("adjust_desired_income", params)
	if err != nil {
		return nil, err
	}
	return &AdjustDesiredIncome{Delta: delta, Percent: percent}, nil
}

func createSetOtherIncome(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_other_income", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetOtherIncome{Amount: amount}, nil
}

func createAddLumpSum(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("add_lump_sum", params, "amount")
	if err != nil {
		return nil, err
	}
	return &AddLumpSum{Amount: amount}, nil
}

func createSetReturnRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_return_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetReturnRate{Rate: rate}, nil
}

func createSetInflation(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_inflation", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetInflation{Rate: rate}, nil
}

func (r *TransformRegistry) createActivateProject(params map[string]string) (ScenarioTransform, error) {
	id, err := requireParam("activate_project", params, "id")
	if err != nil {
		return nil, err
	}
	return &ActivateProject{ID: id, Projects: r.projects}, nil
}

func (r *TransformRegistry) createDeactivateProject(params map[string]string) (ScenarioTransform, error) {
	id, err := requireParam("deactivate_project", params, "id")
	if err != nil {
		return nil, err
	}
	return &DeactivateProject{ID: id, Projects: r.projects}, nil
}

func (r *TransformRegistry) createLimitPriority(params map[string]string) (ScenarioTransform, error) {
	s, err := requireParam("limit_priority", params, "max")
	if err != nil {
		return nil, err
	}
	p, err := domain.ParsePriority(s)
	if err != nil {
		return nil, err
	}
	return &LimitPriority{Max: p, Projects: r.projects}, nil
}
