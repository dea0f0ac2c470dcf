package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/compare"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/output"
	"github.com/LuizHUlmi/profiles-sub000/pkg/dateutil"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// CashFlowRequest is the body of POST /api/v1/projections/cashflow
type CashFlowRequest struct {
	Items          []domain.CashFlowItem       `json:"items"`
	BirthDate      string                      `json:"birth_date"`
	LifeExpectancy int                         `json:"life_expectancy,omitempty"`
	AsOf           string                      `json:"as_of,omitempty"` // ISO date, today when empty
	Assumptions    *domain.AssumptionOverrides `json:"assumptions,omitempty"`
}

// NetWorthRequest is the body of POST /api/v1/projections/networth.
// A missing active_project_ids leaves each project's own flag in charge.
type NetWorthRequest struct {
	Parameters       domain.SimulationParameters `json:"parameters"`
	Projects         []domain.Project            `json:"projects,omitempty"`
	ActiveProjectIDs []string                    `json:"active_project_ids"`
	CurrentYear      int                         `json:"current_year,omitempty"`
	Assumptions      *domain.AssumptionOverrides `json:"assumptions,omitempty"`
}

type healthResponse struct {
	Status string                  `json:"status"`
	Source string                  `json:"source"`
	Cache  *calculation.CacheStats `json:"cache,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Source: s.source.Name()}
	if s.engine.Cache != nil {
		stats := s.engine.Cache.Stats()
		resp.Cache = &stats
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	ids, err := s.source.ListPlans(r.Context())
	if err != nil {
		s.logger.Errorf("failed to list plans: %v", err)
		s.writeError(w, statusFor(err), err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"plans": ids})
}

func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return badRequest("failed to read request body: %v", err)
	}
	if len(data) > maxBodyBytes {
		return badRequest("request body exceeds %d bytes", maxBodyBytes)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func (s *Server) assumptions(overrides ...*domain.AssumptionOverrides) (domain.ProjectionAssumptions, error) {
	a := s.engine.Assumptions
	for _, o := range overrides {
		a = a.WithOverrides(o)
	}
	if err := a.Validate(); err != nil {
		return a, badRequest("invalid assumptions: %v", err)
	}
	return a, nil
}

func (s *Server) cashFlow(r *http.Request) (any, error) {
	var req CashFlowRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	a, err := s.assumptions(req.Assumptions)
	if err != nil {
		return nil, err
	}

	if err := config.ValidateLifeExpectancy(req.LifeExpectancy); err != nil {
		return nil, badRequest("%v", err)
	}
	for i := range req.Items {
		item := &req.Items[i]
		if item.Kind, err = domain.ParseFlowKind(string(item.Kind)); err != nil {
			return nil, badRequest("item %d: %v", i, err)
		}
		if item.StartType, err = domain.ParseAnchorType(string(item.StartType)); err != nil {
			return nil, badRequest("item %d: %v", i, err)
		}
		if err := s.parser.ValidateCashFlowItem(item); err != nil {
			return nil, badRequest("item %d: %v", i, err)
		}
	}

	in := calculation.CashFlowInput{
		Items:          req.Items,
		BirthDate:      req.BirthDate,
		LifeExpectancy: req.LifeExpectancy,
	}
	if req.AsOf != "" {
		asOf, ok := dateutil.ParseDate(req.AsOf)
		if !ok {
			return nil, badRequest("as_of %q is not a valid date", req.AsOf)
		}
		in.AsOf = asOf
	}
	return s.engine.ProjectCashFlow(in, a), nil
}

func (s *Server) netWorth(r *http.Request) (any, error) {
	var req NetWorthRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	a, err := s.assumptions(req.Assumptions)
	if err != nil {
		return nil, err
	}
	p := req.Parameters
	if p.RetirementAge <= 0 || p.RetirementAge > domain.MaxAge {
		return nil, badRequest("parameters.retirement_age must be between 1 and %d", domain.MaxAge)
	}
	if p.CurrentAge < 0 || p.CurrentAge > domain.MaxAge {
		return nil, badRequest("parameters.current_age must be between 0 and %d", domain.MaxAge)
	}
	for i := range req.Projects {
		if err := s.parser.ValidateProject(&req.Projects[i]); err != nil {
			return nil, badRequest("project %d: %v", i, err)
		}
	}

	return s.engine.ProjectNetWorth(calculation.NetWorthInput{
		Parameters:       req.Parameters,
		Projects:         req.Projects,
		ActiveProjectIDs: req.ActiveProjectIDs,
		CurrentYear:      req.CurrentYear,
	}, a), nil
}

func (s *Server) loadPlan(r *http.Request) (*domain.Plan, error) {
	return s.source.LoadPlan(r.Context(), mux.Vars(r)["id"])
}

func (s *Server) planProjection(r *http.Request) (any, error) {
	plan, err := s.loadPlan(r)
	if err != nil {
		return nil, err
	}
	scenario, err := plan.FindScenario(r.URL.Query().Get("scenario"))
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return s.engine.RunScenario(r.Context(), plan, scenario)
}

func (s *Server) planCompare(r *http.Request) (any, error) {
	plan, err := s.loadPlan(r)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	opts := compare.CompareOptions{
		BaseScenarioName: q.Get("base"),
		Templates:        splitList(q.Get("templates"), ","),
		TransformSpecs:   q["transform"],
	}
	if len(opts.Templates) == 0 && len(opts.TransformSpecs) == 0 {
		return nil, badRequest("at least one template or transform is required")
	}

	set, err := s.compare.Compare(r.Context(), plan, opts)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return set, nil
}

// report runs the requested scenarios (all when none is named) into a presentation report
func (s *Server) report(r *http.Request) (*output.Report, error) {
	plan, err := s.loadPlan(r)
	if err != nil {
		return nil, err
	}

	names := splitList(r.URL.Query().Get("scenario"), ",")
	if len(names) == 0 {
		names = plan.ScenarioNames()
	}

	summaries := make([]*domain.ScenarioSummary, 0, len(names))
	for _, name := range names {
		summary, err := s.engine.RunScenarioByName(r.Context(), plan, name)
		if err != nil {
			return nil, badRequest("%v", err)
		}
		summaries = append(summaries, summary)
	}
	return output.NewReport(plan, plan.EffectiveAssumptions(s.engine.Assumptions, nil), calculation.Now(), summaries...), nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, output.SVGChartFormatter{Width: 960, Height: 480})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	f, err := output.GetFormatterByName(format)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.render(w, r, f)
}

var contentTypes = map[string]string{
	"console": "text/plain; charset=utf-8",
	"json":    "application/json",
	"csv":     "text/csv; charset=utf-8",
	"html":    "text/html; charset=utf-8",
	"svg":     "image/svg+xml",
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, f output.Formatter) {
	start := time.Now()
	report, err := s.report(r)
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}
	data, err := f.Format(report)
	if err != nil {
		s.logger.Errorf("failed to render %s report: %v", f.Name(), err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render %s report", f.Name()))
		return
	}

	w.Header().Set("Content-Type", contentTypes[f.Name()])
	w.Header().Set("X-Render-Duration-Ms", fmt.Sprint(time.Since(start).Milliseconds()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
