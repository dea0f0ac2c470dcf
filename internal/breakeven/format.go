package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Target:            %s\n", result.Target))
	if result.Request.BaseScenario != nil {
		sb.WriteString(fmt.Sprintf("Scenario:          %s\n", result.Request.BaseScenario.Name))
	}
	sb.WriteString(fmt.Sprintf("Judged On:         %s\n", tf.seriesLabel(result.Request.Constraints.IncludeProjects)))
	sb.WriteString(fmt.Sprintf("Status:            %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:        %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:       %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLVED PARAMETER\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalContribution != nil {
		sb.WriteString(fmt.Sprintf("Monthly Contribution: $%s\n", tf.formatCurrency(*result.OptimalContribution)))
	}
	if result.OptimalIncome != nil {
		sb.WriteString(fmt.Sprintf("Retirement Income:    $%s per month\n", tf.formatCurrency(*result.OptimalIncome)))
	}
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Retirement Age:       %d\n", *result.OptimalRetirementAge))
	}
	sb.WriteString("\n")

	if s := result.ScenarioSummary; s != nil {
		sb.WriteString("PROJECTED RESULTS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Balance At Retirement:  $%s\n", tf.formatCurrency(s.BalanceAtRetirement)))
		sb.WriteString(fmt.Sprintf("Final Balance:          $%s\n", tf.formatCurrency(s.FinalBalance)))
		sb.WriteString(fmt.Sprintf("Final With Projects:    $%s\n", tf.formatCurrency(s.FinalBalanceWithProjects)))
		sb.WriteString("\n")
	}

	if base := result.BaseScenarioSummary; base != nil {
		sb.WriteString("BASE SCENARIO\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		funded := "yes"
		if !result.BaseFunded {
			funded = "no"
		}
		sb.WriteString(fmt.Sprintf("Funded:                 %s\n", funded))
		sb.WriteString(fmt.Sprintf("Final Balance:          $%s\n", tf.formatCurrency(base.FinalBalance)))
		if result.ScenarioSummary != nil {
			diff := result.ScenarioSummary.FinalBalance.Sub(base.FinalBalance)
			sb.WriteString(fmt.Sprintf("Final Balance Change:   %s$%s\n", tf.deltaSymbol(diff), tf.formatCurrency(diff.Abs())))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-18s %-12s %18s %14s %14s\n",
		"Target", "Status", "Solved Value", "At Retirement", "Final"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		status := "converged"
		if !res.Success {
			status = "unfunded"
		}
		retirement, final := "-", "-"
		if res.ScenarioSummary != nil {
			retirement = "$" + tf.formatShort(res.ScenarioSummary.BalanceAtRetirement)
			final = "$" + tf.formatShort(res.ScenarioSummary.FinalBalance)
		}
		sb.WriteString(fmt.Sprintf("%-18s %-12s %18s %14s %14s\n",
			tf.truncate(string(res.Target), 18), status, tf.solvedValue(&res), retirement, final))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) solvedValue(res *OptimizationResult) string {
	switch {
	case res.OptimalContribution != nil:
		return "$" + tf.formatCurrency(*res.OptimalContribution) + "/mo"
	case res.OptimalIncome != nil:
		return "$" + tf.formatCurrency(*res.OptimalIncome) + "/mo"
	case res.OptimalRetirementAge != nil:
		return fmt.Sprintf("age %d", *res.OptimalRetirementAge)
	}
	return "-"
}

func (tf *TableFormatter) seriesLabel(includeProjects bool) string {
	if includeProjects {
		return "balance with projects"
	}
	return "baseline balance"
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Not funded within bounds"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
