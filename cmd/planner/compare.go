package main

import (
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/breakeven"
	"github.com/LuizHUlmi/profiles-sub000/internal/compare"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare a scenario against what-if alternatives",
	Long: `Compare a base scenario against built-in strategy templates, ad-hoc
transforms or other scenarios of the plan.

Examples:
  planner compare plan.yaml --base base --with retire_later,save_more
  planner compare plan.yaml --transform set_return_rate:rate=0.08 --transform clear_projects
  planner compare plan.yaml --scenarios all_projects,early --format csv
  planner compare plan.yaml --list-templates
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listTemplates, _ := cmd.Flags().GetBool("list-templates")
		if listTemplates {
			registry := transform.CreateBuiltInTemplates(nil)
			if len(args) == 1 {
				loaded, err := config.NewInputParser().LoadFromFile(args[0])
				if err != nil {
					return err
				}
				registry = transform.CreateBuiltInTemplates(loaded.Projects)
			}
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(registry))
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("plan file required for comparison (use --list-templates to see available templates)")
		}

		plan, engine, err := loadPlan(cmd, args[0])
		if err != nil {
			return err
		}

		base, _ := cmd.Flags().GetString("base")
		templates, _ := cmd.Flags().GetString("with")
		transforms, _ := cmd.Flags().GetStringArray("transform")
		scenarios, _ := cmd.Flags().GetString("scenarios")
		format, _ := cmd.Flags().GetString("format")

		compareEngine := compare.NewCompareEngine(engine)

		var compSet *compare.ComparisonSet
		switch {
		case scenarios != "":
			compSet, err = compareEngine.CompareScenarios(cmd.Context(), plan, base, transform.ParseTemplateList(scenarios))
		case templates != "" || len(transforms) > 0:
			compSet, err = compareEngine.Compare(cmd.Context(), plan, compare.CompareOptions{
				BaseScenarioName: base,
				Templates:        transform.ParseTemplateList(templates),
				TransformSpecs:   transforms,
			})
		default:
			return fmt.Errorf("nothing to compare: use --with, --transform or --scenarios")
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		switch format {
		case "csv":
			out, err := (&compare.CSVFormatter{}).Format(compSet)
			if err != nil {
				return err
			}
			fmt.Fprint(w, out)
		case "json":
			out, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, out)
		case "compact":
			fmt.Fprint(w, (&compare.TableFormatter{}).FormatCompact(compSet))
		default:
			fmt.Fprint(w, (&compare.TableFormatter{}).Format(compSet))
		}
		return nil
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve [plan-file]",
	Short: "Solve for the contribution, income or retirement age that keeps a plan funded",
	Long: `Searches one parameter of a scenario, holding the others fixed, for the
break-even value at which the portfolio lasts to the terminal age.

Targets: contribution (minimum), income (maximum), retirement_age (earliest), all.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, engine, err := loadPlan(cmd, args[0])
		if err != nil {
			return err
		}

		scenarioName, _ := cmd.Flags().GetString("scenario")
		scenario, err := plan.FindScenario(scenarioName)
		if err != nil {
			return err
		}

		targetName, _ := cmd.Flags().GetString("target")
		target, err := breakeven.ParseTarget(targetName)
		if err != nil {
			return err
		}

		constraints, err := constraintsFromFlags(cmd)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		solver := breakeven.NewDefaultSolver(engine)
		w := cmd.OutOrStdout()

		if target == breakeven.OptimizeAll {
			result, err := solver.OptimizeMultiDimensional(cmd.Context(), plan, scenario, constraints)
			if err != nil {
				return err
			}
			if format == "json" {
				out, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMultiDimensional(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, out)
				return nil
			}
			fmt.Fprint(w, (&breakeven.TableFormatter{}).FormatMultiDimensional(result))
			return nil
		}

		result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
			Plan:         plan,
			BaseScenario: scenario,
			Target:       target,
			Constraints:  constraints,
		})
		if err != nil {
			return err
		}
		if format == "json" {
			out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, out)
			return nil
		}
		fmt.Fprint(w, (&breakeven.TableFormatter{}).Format(result))
		return nil
	},
}

func constraintsFromFlags(cmd *cobra.Command) (breakeven.Constraints, error) {
	flags := cmd.Flags()
	c := breakeven.DefaultConstraints()

	noProjects, _ := flags.GetBool("no-projects")
	c.IncludeProjects = !noProjects

	decimals := map[string]**decimal.Decimal{
		"min-contribution": &c.MinContribution,
		"max-contribution": &c.MaxContribution,
		"min-income":       &c.MinIncome,
		"max-income":       &c.MaxIncome,
	}
	for name, field := range decimals {
		if flags.Changed(name) {
			v, _ := flags.GetFloat64(name)
			d := decimal.NewFromFloat(v)
			*field = &d
		}
	}
	ints := map[string]**int{
		"min-age": &c.MinRetirementAge,
		"max-age": &c.MaxRetirementAge,
	}
	for name, field := range ints {
		if flags.Changed(name) {
			v, _ := flags.GetInt(name)
			*field = &v
		}
	}
	return c, c.Validate()
}

func init() {
	compareCmd.Flags().String("base", "", "Base scenario name (default: first scenario)")
	compareCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	compareCmd.Flags().StringArray("transform", nil, "Ad-hoc transform name:key=value,... (repeatable, each is one alternative)")
	compareCmd.Flags().String("scenarios", "", "Comma-separated plan scenarios to compare against the base")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available scenario templates")

	solveCmd.Flags().StringP("scenario", "s", "", "Scenario name (default: first scenario)")
	solveCmd.Flags().StringP("target", "t", "all", "What to solve for (contribution, income, retirement_age, all)")
	solveCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	solveCmd.Flags().Bool("no-projects", false, "Judge funding on the baseline series, ignoring projects")
	solveCmd.Flags().Float64("min-contribution", 0, "Lower bound for the contribution search")
	solveCmd.Flags().Float64("max-contribution", 0, "Upper bound for the contribution search")
	solveCmd.Flags().Float64("min-income", 0, "Lower bound for the income search")
	solveCmd.Flags().Float64("max-income", 0, "Upper bound for the income search")
	solveCmd.Flags().Int("min-age", 0, "Earliest retirement age to consider")
	solveCmd.Flags().Int("max-age", 0, "Latest retirement age to consider")
}
