package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/output"
	"github.com/LuizHUlmi/profiles-sub000/internal/store"
	"github.com/sirupsen/logrus"
)

var reportExtensions = map[string]string{
	"console": ".txt",
	"json":    ".json",
	"csv":     ".csv",
	"html":    ".html",
	"svg":     ".svg",
}

// ReportJob renders every plan of a source into files under Dir, one file per format
type ReportJob struct {
	Source  store.Source
	Engine  *calculation.CalculationEngine
	Dir     string
	Formats []string
	Logger  *logrus.Logger
}

// ReportResult lists what one run wrote
type ReportResult struct {
	Files  []string
	Failed map[string]error
}

// Run renders all plans; a failing plan is recorded and does not stop the others
func (j *ReportJob) Run(ctx context.Context) (*ReportResult, error) {
	formatters := make([]output.Formatter, 0, len(j.Formats))
	for _, name := range j.Formats {
		f, err := output.GetFormatterByName(name)
		if err != nil {
			return nil, err
		}
		formatters = append(formatters, f)
	}
	if err := os.MkdirAll(j.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", j.Dir, err)
	}

	ids, err := j.Source.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := &ReportResult{Failed: map[string]error{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		files, err := j.renderPlan(ctx, id, formatters)
		if err != nil {
			result.Failed[id] = err
			j.logger().WithField("plan", id).Warnf("report failed: %v", err)
			continue
		}
		result.Files = append(result.Files, files...)
	}
	j.logger().Infof("report job wrote %d files, %d plans failed", len(result.Files), len(result.Failed))
	return result, nil
}

func (j *ReportJob) renderPlan(ctx context.Context, id string, formatters []output.Formatter) ([]string, error) {
	plan, err := j.Source.LoadPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ScenarioSummary, 0, len(plan.Scenarios))
	for i := range plan.Scenarios {
		summary, err := j.Engine.RunScenario(ctx, plan, &plan.Scenarios[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	report := output.NewReport(plan, plan.EffectiveAssumptions(j.Engine.Assumptions, nil), calculation.Now(), summaries...)

	var files []string
	for _, f := range formatters {
		data, err := f.Format(report)
		if err != nil {
			return nil, fmt.Errorf("%s formatter: %w", f.Name(), err)
		}
		path := filepath.Join(j.Dir, id+reportExtensions[f.Name()])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func (j *ReportJob) logger() *logrus.Logger {
	if j.Logger == nil {
		return logrus.StandardLogger()
	}
	return j.Logger
}
