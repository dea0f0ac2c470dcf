package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/compare"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/store"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawEnvelope struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	Result              json.RawMessage     `json:"result"`
	Error               *ErrorResponse      `json:"error"`
}

func fixedClock(t *testing.T) {
	t.Helper()
	calculation.SetNowFunc(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	t.Cleanup(func() { calculation.SetNowFunc(time.Now) })
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fixedClock(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine := calculation.NewCalculationEngine().WithCache(calculation.NewProjectionCache(32))
	src := store.NewFileSource(filepath.Join("..", "..", "configs", "plans"))
	ts := httptest.NewServer(New(src, engine, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeEnvelope(t *testing.T, data []byte) rawEnvelope {
	t.Helper()
	var env rawEnvelope
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	_, err := uuid.Parse(env.CalculationMetadata.CalculationID)
	require.NoError(t, err)
	assert.False(t, env.CalculationMetadata.CalculationCompletedAt.Before(env.CalculationMetadata.CalculationStartedAt))
	return env
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"status":"ok"`)
	assert.Contains(t, string(data), `"cache"`)
}

func TestCashFlowEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("projects the request", func(t *testing.T) {
		body := `{
			"items": [{"description": "Salary", "kind": "receita", "monthly_amount": 1000, "start": 2025, "duration_years": 10, "annual_correction": 0}],
			"birth_date": "1987-01-20",
			"life_expectancy": 40,
			"as_of": "2025-06-01"
		}`
		resp, data := do(t, http.MethodPost, ts.URL+"/api/v1/projections/cashflow", body)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		env := decodeEnvelope(t, data)
		assert.Equal(t, OutcomeSuccess, env.CalculationMetadata.CalculationOutcome)

		var cf domain.CashFlowProjection
		require.NoError(t, json.Unmarshal(env.Result, &cf))
		assert.Equal(t, []string{"2025 (38)", "2026 (39)", "2027 (40)"}, cf.Categories)
		for _, income := range cf.Incomes {
			assert.Equal(t, "1000", income.String())
		}
	})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"items": [`, "invalid request body"},
		{"unknown kind", `{"items": [{"kind": "gift", "monthly_amount": 1}], "birth_date": "1990-01-01"}`, "unknown cash flow kind"},
		{"bad as_of", `{"birth_date": "1990-01-01", "as_of": "yesterday"}`, "not a valid date"},
		{"bad assumptions", `{"birth_date": "1990-01-01", "assumptions": {"terminal_age": 500}}`, "invalid assumptions"},
		{"life expectancy beyond a lifetime", `{"birth_date": "1987-03-15", "life_expectancy": 3000000}`, "life expectancy must be between"},
		{"negative life expectancy", `{"birth_date": "1987-03-15", "life_expectancy": -1}`, "life expectancy must be between"},
		{"duration beyond a lifetime", `{"birth_date": "1987-03-15", "items": [{"kind": "income", "monthly_amount": "1000", "start": 2025, "duration_years": 100000000}]}`, "duration cannot exceed"},
		{"start year out of range", `{"birth_date": "1987-03-15", "items": [{"kind": "income", "monthly_amount": "1000", "start": -5000000, "duration_years": 10}]}`, "start year must be between"},
		{"start age out of range", `{"birth_date": "1987-03-15", "items": [{"kind": "income", "start_type": "age", "monthly_amount": "1000", "start": 900, "duration_years": 10}]}`, "start age must be between"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/api/v1/projections/cashflow", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			env := decodeEnvelope(t, data)
			assert.Equal(t, OutcomeFailure, env.CalculationMetadata.CalculationOutcome)
			require.NotNil(t, env.Error)
			assert.Contains(t, env.Error.Message, tt.want)
		})
	}
}

func TestNetWorthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := `{
		"parameters": {"current_age": 60, "current_net_worth": 1000, "retirement_age": 61, "monthly_contribution": 100},
		"projects": [{"id": "trip", "name": "Trip", "total_cost": 500, "target_year": 2025, "active": true}],
		"current_year": 2025,
		"assumptions": {"annual_return_rate": 0, "terminal_age": 62}
	}`
	resp, data := do(t, http.MethodPost, ts.URL+"/api/v1/projections/networth", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var nw domain.NetWorthProjection
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, data).Result, &nw))
	require.Equal(t, 24, nw.Len())
	assert.Equal(t, 1100.0, nw.BaselineBalances[0])
	assert.Equal(t, 2200.0, nw.BaselineBalances[23])
	assert.Equal(t, 600.0, nw.WithProjectsBalances[0])
	require.Len(t, nw.ProjectEvents, 1)
	assert.True(t, nw.ProjectEvents[0].Applied)

	rejected := []string{
		`{"parameters": {}}`,
		`{"parameters": {"retirement_age": 5000}}`,
		`{"parameters": {"current_age": -3, "retirement_age": 65}}`,
		`{"parameters": {"retirement_age": 65}, "projects": [{"id": "car", "total_cost": 1, "target_year": 2030, "occurrences": 1000000000, "active": true}]}`,
		`{"parameters": {"retirement_age": 65}, "projects": [{"id": "car", "total_cost": 1, "target_year": 9999999, "active": true}]}`,
	}
	for _, body := range rejected {
		resp, data := do(t, http.MethodPost, ts.URL+"/api/v1/projections/networth", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, OutcomeFailure, decodeEnvelope(t, data).CalculationMetadata.CalculationOutcome)
	}
}

func TestMethodRouting(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodDelete, "/health", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/v1/plans", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/projections/cashflow", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/v1/plans/silva/projection", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nothing", http.StatusNotFound},
		{http.MethodGet, "/elsewhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, data := do(t, tt.method, ts.URL+tt.path, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(data), `"message"`)
		})
	}
}

func TestPlanEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("list", func(t *testing.T) {
		resp, data := do(t, http.MethodGet, ts.URL+"/api/v1/plans", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(data), `"silva"`)
	})

	t.Run("projection", func(t *testing.T) {
		resp, data := do(t, http.MethodGet, ts.URL+"/api/v1/plans/silva/projection?scenario=base", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		var summary domain.ScenarioSummary
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, data).Result, &summary))
		assert.Equal(t, "base", summary.Name)
		assert.Equal(t, 38, summary.CurrentAge)
		require.NotNil(t, summary.NetWorth)
		require.NotNil(t, summary.CashFlow)
		assert.NotEmpty(t, summary.NetWorth.WithProjectsBalances)
	})

	t.Run("status codes", func(t *testing.T) {
		tests := []struct {
			path   string
			status int
		}{
			{"/api/v1/plans/nobody/projection", http.StatusNotFound},
			{"/api/v1/plans/silva/projection?scenario=missing", http.StatusBadRequest},
			{"/api/v1/plans/silva/compare", http.StatusBadRequest},
			{"/api/v1/plans/silva/compare?templates=unknown_template", http.StatusBadRequest},
			{"/api/v1/plans/silva/report?format=pdf", http.StatusBadRequest},
			{"/api/v1/nothing", http.StatusNotFound},
		}
		for _, tt := range tests {
			resp, _ := do(t, http.MethodGet, ts.URL+tt.path, "")
			assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		}

		resp, _ := do(t, http.MethodDelete, ts.URL+"/api/v1/plans", "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("compare", func(t *testing.T) {
		resp, data := do(t, http.MethodGet, ts.URL+"/api/v1/plans/silva/compare?base=base&templates=save_more,retire_later&transform=set_return_rate:rate=0.04", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		var set compare.ComparisonSet
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, data).Result, &set))
		assert.Equal(t, "base", set.BaseScenarioName)
		assert.Len(t, set.AlternativeResults, 3)
	})

	t.Run("chart", func(t *testing.T) {
		resp, data := do(t, http.MethodGet, ts.URL+"/api/v1/plans/silva/chart.svg?scenario=base", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
		assert.Contains(t, string(data), "<svg")
		assert.Contains(t, string(data), `class="with-projects"`)
	})

	t.Run("csv report of every scenario", func(t *testing.T) {
		resp, data := do(t, http.MethodGet, ts.URL+"/api/v1/plans/silva/report?format=csv", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
		text := string(data)
		assert.True(t, strings.HasPrefix(text, "Scenario,Age,Year"))
		assert.Contains(t, text, "\nearly,")
		assert.Contains(t, text, "\nall_projects,")
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", badRequest("missing %s", "body"), http.StatusBadRequest},
		{"invalid stored plan", fmt.Errorf("load: %w", &config.ValidationError{PlanID: "x", Err: errors.New("no scenarios provided")}), http.StatusUnprocessableEntity},
		{"unknown plan", fmt.Errorf("load: %w", store.ErrPlanNotFound), http.StatusNotFound},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
