package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

// RESTSource loads plans from a PostgREST-style backend exposing the planner tables
type RESTSource struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	client  *fasthttp.Client
}

// RESTOption customizes a RESTSource
type RESTOption func(*RESTSource)

// WithClient replaces the default fasthttp client
func WithClient(c *fasthttp.Client) RESTOption {
	return func(s *RESTSource) { s.client = c }
}

// WithTimeout bounds each request when the context has no deadline
func WithTimeout(d time.Duration) RESTOption {
	return func(s *RESTSource) { s.Timeout = d }
}

// NewRESTSource creates a source for the backend at baseURL
func NewRESTSource(baseURL, apiKey string, opts ...RESTOption) *RESTSource {
	s := &RESTSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Timeout: 10 * time.Second,
		client: &fasthttp.Client{
			Name:                "planner",
			MaxConnsPerHost:     16,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RESTSource) Name() string { return "rest:" + s.BaseURL }

type holdingRow struct {
	domain.Holding
	IsLiability bool `json:"is_liability"`
}

type scenarioRow struct {
	Name                    string           `json:"name"`
	Description             string           `json:"description"`
	CurrentAge              int              `json:"current_age"`
	CurrentNetWorth         decimal.Decimal  `json:"current_net_worth"`
	RetirementAge           int              `json:"retirement_age"`
	DesiredRetirementIncome decimal.Decimal  `json:"desired_retirement_income"`
	OtherIncome             decimal.Decimal  `json:"other_income"`
	MonthlyContribution     decimal.Decimal  `json:"monthly_contribution"`
	ActiveProjects          *[]string        `json:"active_projects"`
	AnnualReturnRate        *decimal.Decimal `json:"annual_return_rate"`
	DefaultCorrectionRate   *decimal.Decimal `json:"default_correction_rate"`
}

func (r scenarioRow) scenario() domain.Scenario {
	sc := domain.Scenario{
		Name:        r.Name,
		Description: r.Description,
		Parameters: domain.SimulationParameters{
			CurrentAge:              r.CurrentAge,
			CurrentNetWorth:         r.CurrentNetWorth,
			RetirementAge:           r.RetirementAge,
			DesiredRetirementIncome: r.DesiredRetirementIncome,
			OtherIncome:             r.OtherIncome,
			MonthlyContribution:     r.MonthlyContribution,
		},
	}
	if r.ActiveProjects != nil {
		sc.ActiveProjectIDs = append([]string{}, *r.ActiveProjects...)
	}
	if r.AnnualReturnRate != nil || r.DefaultCorrectionRate != nil {
		sc.Assumptions = &domain.AssumptionOverrides{
			AnnualReturnRate:      r.AnnualReturnRate,
			DefaultCorrectionRate: r.DefaultCorrectionRate,
		}
	}
	return sc
}

// ListPlans returns every profile id
func (s *RESTSource) ListPlans(ctx context.Context) ([]string, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	if err := s.get(ctx, "profiles", map[string]string{"select": "id", "order": "id"}, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// LoadPlan fetches the profile and its entity groups concurrently
func (s *RESTSource) LoadPlan(ctx context.Context, id string) (*domain.Plan, error) {
	byProfile := func(order string) map[string]string {
		q := map[string]string{"profile_id": "eq." + id}
		if order != "" {
			q["order"] = order
		}
		return q
	}

	return gather(ctx, id, []fetch{
		{"profile", func(ctx context.Context, p *planParts) error {
			var rows []domain.Profile
			if err := s.get(ctx, "profiles", map[string]string{"id": "eq." + id}, &rows); err != nil {
				return err
			}
			if len(rows) > 0 {
				p.profile, p.found = rows[0], true
			}
			return nil
		}},
		{"family members", func(ctx context.Context, p *planParts) error {
			if err := s.get(ctx, "family_members", byProfile("id"), &p.family); err != nil {
				return err
			}
			for i := range p.family {
				rel, err := domain.ParseRelationship(string(p.family[i].Relationship))
				if err != nil {
					return err
				}
				p.family[i].Relationship = rel
			}
			return nil
		}},
		{"cash flow items", func(ctx context.Context, p *planParts) error {
			if err := s.get(ctx, "cash_flow_items", byProfile("position,id"), &p.items); err != nil {
				return err
			}
			for i := range p.items {
				kind, err := domain.ParseFlowKind(string(p.items[i].Kind))
				if err != nil {
					return err
				}
				anchor, err := domain.ParseAnchorType(string(p.items[i].StartType))
				if err != nil {
					return err
				}
				p.items[i].Kind, p.items[i].StartType = kind, anchor
			}
			return nil
		}},
		{"projects", func(ctx context.Context, p *planParts) error {
			return s.get(ctx, "projects", byProfile("id"), &p.projects)
		}},
		{"balance sheet", func(ctx context.Context, p *planParts) error {
			var rows []holdingRow
			if err := s.get(ctx, "holdings", byProfile("id"), &rows); err != nil {
				return err
			}
			for _, r := range rows {
				if r.IsLiability {
					p.balance.Liabilities = append(p.balance.Liabilities, r.Holding)
				} else {
					p.balance.Assets = append(p.balance.Assets, r.Holding)
				}
			}
			return nil
		}},
		{"scenarios", func(ctx context.Context, p *planParts) error {
			var rows []scenarioRow
			if err := s.get(ctx, "scenarios", byProfile("position,name"), &rows); err != nil {
				return err
			}
			for _, r := range rows {
				p.scenarios = append(p.scenarios, r.scenario())
			}
			return nil
		}},
		{"assumptions", func(ctx context.Context, p *planParts) error {
			var rows []domain.AssumptionOverrides
			if err := s.get(ctx, "plan_assumptions", byProfile(""), &rows); err != nil {
				return err
			}
			if len(rows) > 0 {
				p.assumptions = &rows[0]
			}
			return nil
		}},
	})
}

// get issues GET <base>/<table>?<query> and decodes the JSON array response into out
func (s *RESTSource) get(ctx context.Context, table string, query map[string]string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	for k, v := range query {
		args.Set(k, v)
	}
	args.Sort(bytes.Compare)

	req.SetRequestURI(s.BaseURL + "/" + table + "?" + string(args.QueryString()))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if s.APIKey != "" {
		req.Header.Set("apikey", s.APIKey)
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(s.Timeout)
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("GET %s: %w", table, err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		body := resp.Body()
		if len(body) > 200 {
			body = body[:200]
		}
		return fmt.Errorf("GET %s: unexpected status %d: %s", table, status, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("GET %s: failed to decode response: %w", table, err)
	}
	return nil
}
