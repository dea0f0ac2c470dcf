package main

import (
	"fmt"
	"io"
	"os"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/output"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project [plan-file]",
	Short: "Project cash flow and net worth for the scenarios of a plan",
	Long: `Runs scenarios of a plan and renders the report.

Examples:
  planner project configs/plans/silva.yaml
  planner project configs/plans/silva.yaml --scenario early --format html -o early.html
  planner project configs/plans/silva.yaml --all --format svg -o chart.svg
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, engine, err := loadPlan(cmd, args[0])
		if err != nil {
			return err
		}

		scenarioName, _ := cmd.Flags().GetString("scenario")
		all, _ := cmd.Flags().GetBool("all")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")

		formatter, err := output.GetFormatterByName(format)
		if err != nil {
			return err
		}

		names := []string{scenarioName}
		if all {
			names = plan.ScenarioNames()
		}

		summaries := make([]*domain.ScenarioSummary, 0, len(names))
		for _, name := range names {
			summary, err := engine.RunScenarioByName(cmd.Context(), plan, name)
			if err != nil {
				return err
			}
			summaries = append(summaries, summary)
		}

		report := output.NewReport(plan, plan.EffectiveAssumptions(engine.Assumptions, nil), calculation.Now(), summaries...)
		return withOutput(cmd, outPath, func(w io.Writer) error {
			return output.WriteFormatted(w, formatter, report)
		})
	},
}

var cashFlowCmd = &cobra.Command{
	Use:   "cashflow [plan-file]",
	Short: "Project the yearly income and expense series of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, engine, err := loadPlan(cmd, args[0])
		if err != nil {
			return err
		}

		a := plan.EffectiveAssumptions(engine.Assumptions, nil)
		if cmd.Flags().Changed("correction") {
			rate, _ := cmd.Flags().GetFloat64("correction")
			a.DefaultCorrectionRate = decimal.NewFromFloat(rate).Div(decimal.NewFromInt(100))
		}
		if err := a.Validate(); err != nil {
			return err
		}

		cf := engine.ProjectCashFlow(calculation.CashFlowInput{
			Items:          plan.CashFlowItems,
			BirthDate:      plan.Profile.BirthDate,
			LifeExpectancy: plan.Profile.LifeExpectancy,
			AsOf:           calculation.Now(),
		}, a)

		format, _ := cmd.Flags().GetString("format")
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), cf)
		}

		w := cmd.OutOrStdout()
		if cf.Len() == 0 {
			fmt.Fprintln(w, "No cash flow to project: the profile has no birth date")
			return nil
		}
		fmt.Fprintf(w, "%-12s %18s %18s %18s\n", "Year (age)", "Income", "Expenses", "Balance")
		for i := range cf.Categories {
			fmt.Fprintf(w, "%-12s %18s %18s %18s\n", cf.Categories[i],
				output.FormatCurrency(cf.Incomes[i]), output.FormatCurrency(cf.Expenses[i]), output.FormatCurrency(cf.Balances[i]))
		}
		if deficits := cf.DeficitYears(); len(deficits) > 0 {
			fmt.Fprintf(w, "\nDeficit years: %v\n", deficits)
		}
		return nil
	},
}

var netWorthCmd = &cobra.Command{
	Use:   "networth [plan-file]",
	Short: "Project the monthly net worth of one scenario",
	Long: `Runs the net worth projection of a scenario. Flags override the
scenario parameters, so the command doubles as a quick what-if tool.

Example:
  planner networth configs/plans/silva.yaml --scenario base --retirement-age 62 --contribution 3000
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
		scenario = scenario.Clone()
		applyParameterFlags(cmd, &scenario.Parameters)

		a := plan.EffectiveAssumptions(engine.Assumptions, scenario)
		if cmd.Flags().Changed("return") {
			rate, _ := cmd.Flags().GetFloat64("return")
			a.AnnualReturnRate = decimal.NewFromFloat(rate).Div(decimal.NewFromInt(100))
		}
		if err := a.Validate(); err != nil {
			return err
		}

		asOf := calculation.Now()
		nw := engine.ProjectNetWorth(calculation.NetWorthInput{
			Parameters:       engine.ResolveParameters(plan, scenario, asOf, a),
			Projects:         plan.Projects,
			ActiveProjectIDs: scenario.ActiveProjectIDs,
			CurrentYear:      asOf.Year(),
		}, a)

		format, _ := cmd.Flags().GetString("format")
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), nw)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-5s %-6s %20s %20s\n", "Age", "Year", "Baseline", "With projects")
		for i := 0; i < nw.Len(); i += 12 {
			withProjects := "-"
			if nw.WithProjectsBalances != nil {
				withProjects = output.FormatMoney(nw.WithProjectsBalances[i])
			}
			fmt.Fprintf(w, "%-5d %-6s %20s %20s\n", nw.Ages[i], nw.Years[i], output.FormatMoney(nw.BaselineBalances[i]), withProjects)
		}
		for _, ev := range nw.ProjectEvents {
			if !ev.Applied {
				fmt.Fprintf(w, "project %s in %d falls outside the horizon\n", ev.ProjectID, ev.Year)
			}
		}
		return nil
	},
}

// applyParameterFlags overrides scenario parameters with the flags the user set
func applyParameterFlags(cmd *cobra.Command, p *domain.SimulationParameters) {
	flags := cmd.Flags()
	if flags.Changed("retirement-age") {
		p.RetirementAge, _ = flags.GetInt("retirement-age")
	}
	money := map[string]*decimal.Decimal{
		"contribution": &p.MonthlyContribution,
		"desired":      &p.DesiredRetirementIncome,
		"other-income": &p.OtherIncome,
		"net-worth":    &p.CurrentNetWorth,
	}
	for name, field := range money {
		if flags.Changed(name) {
			v, _ := flags.GetFloat64(name)
			*field = decimal.NewFromFloat(v)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withOutput writes to the named file, or to the command's stdout when path is empty
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}

func init() {
	projectCmd.Flags().StringP("scenario", "s", "", "Scenario name (default: first scenario)")
	projectCmd.Flags().Bool("all", false, "Run every scenario of the plan")
	projectCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, html, svg)")
	projectCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	cashFlowCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cashFlowCmd.Flags().Float64("correction", 0, "Default annual correction in percent for items without their own")

	netWorthCmd.Flags().StringP("scenario", "s", "", "Scenario name (default: first scenario)")
	netWorthCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	netWorthCmd.Flags().Int("retirement-age", 0, "Override the retirement age")
	netWorthCmd.Flags().Float64("contribution", 0, "Override the monthly contribution")
	netWorthCmd.Flags().Float64("desired", 0, "Override the desired monthly retirement income")
	netWorthCmd.Flags().Float64("other-income", 0, "Override the other monthly retirement income")
	netWorthCmd.Flags().Float64("net-worth", 0, "Override the current net worth")
	netWorthCmd.Flags().Float64("return", 0, "Override the annual return in percent")
}
