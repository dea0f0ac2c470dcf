package compare

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// RankedScenario is one line of the ranking emitted next to the comparison
type RankedScenario struct {
	Rank                     int             `json:"rank"`
	ScenarioName             string          `json:"scenarioName"`
	FundedYears              int             `json:"fundedYears"`
	FinalBalanceWithProjects decimal.Decimal `json:"finalBalanceWithProjects"`
	Sustainable              bool            `json:"sustainable"`
}

type comparisonDocument struct {
	ComparisonSet
	Ranking              []RankedScenario `json:"ranking"`
	BestScenario         string           `json:"bestScenario,omitempty"`
	SustainableScenarios []string         `json:"sustainableScenarios"`
}

// Format generates JSON output for comparison results: the comparison set plus a
// ranking of every scenario, base included, by funded years then final balance
// with projects.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	doc := comparisonDocument{
		ComparisonSet:        *compSet,
		Ranking:              Rank(compSet),
		SustainableScenarios: []string{},
	}
	if doc.Recommendations == nil {
		doc.Recommendations = []string{}
	}
	if doc.AlternativeResults == nil {
		doc.AlternativeResults = []ComparisonResult{}
	}
	if len(doc.Ranking) > 0 {
		doc.BestScenario = doc.Ranking[0].ScenarioName
	}
	for _, r := range doc.Ranking {
		if r.Sustainable {
			doc.SustainableScenarios = append(doc.SustainableScenarios, r.ScenarioName)
		}
	}

	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Rank orders the base and alternative scenarios, longest funded first
func Rank(compSet *ComparisonSet) []RankedScenario {
	var results []ComparisonResult
	if compSet.BaseResult != nil {
		results = append(results, *compSet.BaseResult)
	}
	results = append(results, compSet.AlternativeResults...)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FundedYears != results[j].FundedYears {
			return results[i].FundedYears > results[j].FundedYears
		}
		return results[i].FinalBalanceWithProjects.GreaterThan(results[j].FinalBalanceWithProjects)
	})

	ranking := make([]RankedScenario, len(results))
	for i, r := range results {
		ranking[i] = RankedScenario{
			Rank:                     i + 1,
			ScenarioName:             r.ScenarioName,
			FundedYears:              r.FundedYears,
			FinalBalanceWithProjects: r.FinalBalanceWithProjects,
			Sustainable:              r.Sustainable,
		}
	}
	return ranking
}
