package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.PlanPath != "" {
		sb.WriteString(fmt.Sprintf("Plan: %s\n", compSet.PlanPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "At Retirement",
		numWidth, "Final Balance",
		numWidth, "With Projects",
		numWidth, "Funded"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Final Balance:    %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.FinalBalanceDiff),
				tf.formatDecimal(alt.FinalBalanceDiff),
				alt.FinalBalancePctFromBase.StringFixed(1)))

			if !alt.RetirementBalanceDiff.IsZero() {
				sb.WriteString(fmt.Sprintf("  At Retirement:    %s$%s\n",
					tf.deltaSymbol(alt.RetirementBalanceDiff),
					tf.formatDecimal(alt.RetirementBalanceDiff)))
			}

			if alt.FundedYearsDiff != 0 {
				symbol := "+"
				if alt.FundedYearsDiff < 0 {
					symbol = ""
				}
				sb.WriteString(fmt.Sprintf("  Funded Years:     %s%d years\n", symbol, alt.FundedYearsDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	funded := fmt.Sprintf("%d years", result.FundedYears)
	if !result.Sustainable {
		funded = fmt.Sprintf("age %d", result.DepletionAge)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.BalanceAtRetirement),
		numWidth, "$"+tf.formatDecimal(result.FinalBalance),
		numWidth, "$"+tf.formatDecimal(result.FinalBalanceWithProjects),
		numWidth, funded)
}

// formatDecimal formats a decimal for display (in thousands or millions)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	abs := d.Abs()
	if abs.GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return abs.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if abs.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return abs.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return abs.StringFixed(0)
}

// deltaSymbol returns the sign shown in front of a delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.FinalBalanceDiff.IsZero() {
			change = fmt.Sprintf("%s$%s", tf.deltaSymbol(alt.FinalBalanceDiff), tf.formatDecimal(alt.FinalBalanceDiff))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
