package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schemaSQL string

// pq error code for a missing relation
const undefinedTable = "42P01"

// PostgresSource loads plans from the planner schema, one query per entity
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource wraps an open database handle
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgresSource connects to dsn and checks the connection
func OpenPostgresSource(dsn string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewPostgresSource(db), nil
}

func (s *PostgresSource) Name() string { return "postgres" }

// Close closes the database handle
func (s *PostgresSource) Close() error { return s.db.Close() }

// Migrate creates the planner schema when it does not exist
func (s *PostgresSource) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// ListPlans returns every profile id
func (s *PostgresSource) ListPlans(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM planner.profiles ORDER BY id`)
	if err != nil {
		return nil, wrapQueryError("list plans", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan plan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadPlan fetches the profile and its entity groups concurrently
func (s *PostgresSource) LoadPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return gather(ctx, id, []fetch{
		{"profile", func(ctx context.Context, p *planParts) error { return s.loadProfile(ctx, id, p) }},
		{"family members", func(ctx context.Context, p *planParts) error { return s.loadFamily(ctx, id, p) }},
		{"cash flow items", func(ctx context.Context, p *planParts) error { return s.loadItems(ctx, id, p) }},
		{"projects", func(ctx context.Context, p *planParts) error { return s.loadProjects(ctx, id, p) }},
		{"balance sheet", func(ctx context.Context, p *planParts) error { return s.loadHoldings(ctx, id, p) }},
		{"scenarios", func(ctx context.Context, p *planParts) error { return s.loadScenarios(ctx, id, p) }},
		{"assumptions", func(ctx context.Context, p *planParts) error { return s.loadAssumptions(ctx, id, p) }},
	})
}

func (s *PostgresSource) loadProfile(ctx context.Context, id string, p *planParts) error {
	query := `
		SELECT id, name, birth_date, life_expectancy
		FROM planner.profiles
		WHERE id = $1`
	var birth sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&p.profile.ID, &p.profile.Name, &birth, &p.profile.LifeExpectancy)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return wrapQueryError("find profile", err)
	}
	if birth.Valid {
		p.profile.BirthDate = birth.Time.Format("2006-01-02")
	}
	p.found = true
	return nil
}

func (s *PostgresSource) loadFamily(ctx context.Context, id string, p *planParts) error {
	query := `
		SELECT name, relationship, birth_date
		FROM planner.family_members
		WHERE profile_id = $1
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return wrapQueryError("list family members", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m     domain.FamilyMember
			rel   string
			birth sql.NullTime
		)
		if err := rows.Scan(&m.Name, &rel, &birth); err != nil {
			return fmt.Errorf("failed to scan family member: %w", err)
		}
		if m.Relationship, err = domain.ParseRelationship(rel); err != nil {
			return err
		}
		if birth.Valid {
			m.BirthDate = birth.Time.Format("2006-01-02")
		}
		p.family = append(p.family, m)
	}
	return rows.Err()
}

func (s *PostgresSource) loadItems(ctx context.Context, id string, p *planParts) error {
	query := `
		SELECT id, description, kind, monthly_amount, start_type, start, duration_years, annual_correction
		FROM planner.cash_flow_items
		WHERE profile_id = $1
		ORDER BY position, id`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return wrapQueryError("list cash flow items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item            domain.CashFlowItem
			kind, startType string
			correction      decimal.NullDecimal
		)
		if err := rows.Scan(&item.ID, &item.Description, &kind, &item.MonthlyAmount, &startType,
			&item.Start, &item.DurationYears, &correction); err != nil {
			return fmt.Errorf("failed to scan cash flow item: %w", err)
		}
		if item.Kind, err = domain.ParseFlowKind(kind); err != nil {
			return err
		}
		if item.StartType, err = domain.ParseAnchorType(startType); err != nil {
			return err
		}
		if correction.Valid {
			item.AnnualCorrection = &correction.Decimal
		}
		p.items = append(p.items, item)
	}
	return rows.Err()
}

func (s *PostgresSource) loadProjects(ctx context.Context, id string, p *planParts) error {
	query := `
		SELECT id, name, total_cost, priority, target_year, target_age, occurrences, interval_years, active
		FROM planner.projects
		WHERE profile_id = $1
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return wrapQueryError("list projects", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pr       domain.Project
			priority string
		)
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.TotalCost, &priority, &pr.TargetYear, &pr.TargetAge,
			&pr.Occurrences, &pr.IntervalYears, &pr.Active); err != nil {
			return fmt.Errorf("failed to scan project: %w", err)
		}
		if pr.Priority, err = domain.ParsePriority(priority); err != nil {
			return err
		}
		p.projects = append(p.projects, pr)
	}
	return rows.Err()
}

func (s *PostgresSource) loadHoldings(ctx context.Context, id string, p *planParts) error {
	query := `
		SELECT name, category, value, is_liability
		FROM planner.holdings
		WHERE profile_id = $1
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return wrapQueryError("list holdings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			h         domain.Holding
			liability bool
		)
		if err := rows.Scan(&h.Name, &h.Category, &h.Value, &liability); err != nil {
			return fmt.Errorf("failed to scan holding: %w", err)
		}
		if liability {
			p.balance.Liabilities = append(p.balance.Liabilities, h)
		} else {
			p.balance.Assets = append(p.balance.Assets, h)
		}
	}
	return rows.Err()
}

func (s *PostgresSource) loadScenarios(ctx context.Context, id string, p *planParts) error {
	query := `
		SELECT name, description, current_age, current_net_worth, retirement_age,
		       desired_retirement_income, other_income, monthly_contribution,
		       active_projects, annual_return_rate, default_correction_rate
		FROM planner.scenarios
		WHERE profile_id = $1
		ORDER BY position, name`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return wrapQueryError("list scenarios", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sc              domain.Scenario
			active          pq.StringArray
			ret, correction decimal.NullDecimal
		)
		params := &sc.Parameters
		if err := rows.Scan(&sc.Name, &sc.Description, &params.CurrentAge, &params.CurrentNetWorth,
			&params.RetirementAge, &params.DesiredRetirementIncome, &params.OtherIncome,
			&params.MonthlyContribution, &active, &ret, &correction); err != nil {
			return fmt.Errorf("failed to scan scenario: %w", err)
		}
		// NULL keeps the per-project flags in charge; an empty array deactivates every project
		if active != nil {
			sc.ActiveProjectIDs = []string(active)
		}
		if ret.Valid || correction.Valid {
			sc.Assumptions = &domain.AssumptionOverrides{}
			if ret.Valid {
				sc.Assumptions.AnnualReturnRate = &ret.Decimal
			}
			if correction.Valid {
				sc.Assumptions.DefaultCorrectionRate = &correction.Decimal
			}
		}
		p.scenarios = append(p.scenarios, sc)
	}
	return rows.Err()
}

func (s *PostgresSource) loadAssumptions(ctx context.Context, id string, p *planParts) error {
	query := `
		SELECT default_correction_rate, annual_return_rate, cash_flow_life_expectancy, terminal_age, default_current_age
		FROM planner.plan_assumptions
		WHERE profile_id = $1`
	var (
		correction, ret           decimal.NullDecimal
		lifeExp, terminal, curAge sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&correction, &ret, &lifeExp, &terminal, &curAge)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return wrapQueryError("find assumptions", err)
	}

	o := &domain.AssumptionOverrides{}
	if correction.Valid {
		o.DefaultCorrectionRate = &correction.Decimal
	}
	if ret.Valid {
		o.AnnualReturnRate = &ret.Decimal
	}
	o.CashFlowLifeExpectancy = nullInt(lifeExp)
	o.TerminalAge = nullInt(terminal)
	o.DefaultCurrentAge = nullInt(curAge)
	p.assumptions = o
	return nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func wrapQueryError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("failed to %s: planner schema is missing, run migrations: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
