package compare

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparisonSet() *ComparisonSet {
	return &ComparisonSet{
		BaseScenarioName: "base",
		PlanPath:         "configs/plans/silva.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:             "base",
			RetirementAge:            65,
			BalanceAtRetirement:      decimal.NewFromInt(1800000),
			FinalBalance:             decimal.Zero,
			FinalBalanceWithProjects: decimal.Zero,
			FundedYears:              48,
			DepletionAge:             86,
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:             "base_retire_later",
				Description:              "Postpone retirement by 3 years",
				RetirementAge:            68,
				BalanceAtRetirement:      decimal.NewFromInt(2300000),
				FinalBalance:             decimal.NewFromInt(450000),
				FinalBalanceWithProjects: decimal.NewFromInt(120000),
				FundedYears:              62,
				Sustainable:              true,
				FinalBalanceDiff:         decimal.NewFromInt(450000),
				RetirementBalanceDiff:    decimal.NewFromInt(500000),
				FundedYearsDiff:          14,
			},
		},
		Recommendations: []string{"Best Longevity: base_retire_later keeps the portfolio funded 14 years longer"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleComparisonSet())

	assert.Contains(t, out, "SCENARIO COMPARISON")
	assert.Contains(t, out, "Base Scenario: base")
	assert.Contains(t, out, "Plan: configs/plans/silva.yaml")
	assert.Contains(t, out, "base (base)")
	assert.Contains(t, out, "age 86")
	assert.Contains(t, out, "62 years")
	assert.Contains(t, out, "$1.80M")
	assert.Contains(t, out, "Final Balance:    +$450.0K")
	assert.Contains(t, out, "Funded Years:     +14 years")
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	compSet := sampleComparisonSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	out := (&TableFormatter{}).Format(compSet)
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_Helpers(t *testing.T) {
	tf := &TableFormatter{}

	assert.Equal(t, "1.50M", tf.formatDecimal(decimal.NewFromInt(1500000)))
	assert.Equal(t, "2.5K", tf.formatDecimal(decimal.NewFromInt(-2500)))
	assert.Equal(t, "999", tf.formatDecimal(decimal.NewFromInt(999)))
	assert.Equal(t, "-", tf.deltaSymbol(decimal.NewFromInt(-1)))
	assert.Equal(t, " ", tf.deltaSymbol(decimal.Zero))
	assert.Equal(t, "abcd...", tf.truncate("abcdefghij", 7))

	compact := tf.FormatCompact(sampleComparisonSet())
	assert.Equal(t, "Base: base | base_retire_later: +$450.0K", compact)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleComparisonSet())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Scenario", records[0][0])
	assert.Equal(t, len(records[0]), len(records[1]))
	assert.Equal(t, []string{"base", "base"}, records[1][:2])
	assert.Equal(t, "alternative", records[2][1])
	assert.Equal(t, "68", records[2][2])
	assert.Equal(t, "14", records[2][len(records[2])-1])
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(sampleComparisonSet())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "base", decoded["baseScenarioName"])
		assert.Len(t, decoded["alternativeResults"], 1)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))
		assert.Equal(t, "base_retire_later", decoded["bestScenario"])
		assert.Equal(t, []any{"base_retire_later"}, decoded["sustainableScenarios"])
		assert.Len(t, decoded["recommendations"], 1)
	}
}

func TestJSONFormatter_FormatEmptyLists(t *testing.T) {
	compSet := sampleComparisonSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	out, err := (&JSONFormatter{}).Format(compSet)
	require.NoError(t, err)
	assert.Contains(t, out, `"alternativeResults":[]`)
	assert.Contains(t, out, `"recommendations":[]`)
	assert.Contains(t, out, `"sustainableScenarios":[]`)
	assert.Contains(t, out, `"bestScenario":"base"`)
	assert.Nil(t, compSet.Recommendations)
}

func TestRank(t *testing.T) {
	compSet := sampleComparisonSet()
	compSet.AlternativeResults = append(compSet.AlternativeResults, ComparisonResult{
		ScenarioName:             "base_save_more",
		FundedYears:              62,
		FinalBalanceWithProjects: decimal.NewFromInt(300000),
		Sustainable:              true,
	})

	ranking := Rank(compSet)
	require.Len(t, ranking, 3)

	names := make([]string, len(ranking))
	for i, r := range ranking {
		names[i] = r.ScenarioName
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"base_save_more", "base_retire_later", "base"}, names)
	assert.False(t, ranking[2].Sustainable)
}
