package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ErrPlanNotFound is returned when a source has no plan with the requested id
var ErrPlanNotFound = errors.New("plan not found")

// Source loads client plans from wherever they are kept
type Source interface {
	Name() string
	ListPlans(ctx context.Context) ([]string, error)
	LoadPlan(ctx context.Context, id string) (*domain.Plan, error)
}

// Open builds the source selected by the service configuration
func Open(cfg *config.ServiceConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceFile:
		return NewFileSource(cfg.PlanDir), nil
	case config.SourcePostgres:
		return OpenPostgresSource(cfg.DatabaseURL)
	case config.SourceREST:
		return NewRESTSource(cfg.RESTURL, cfg.RESTKey), nil
	default:
		return nil, fmt.Errorf("unknown plan source %q", cfg.Source)
	}
}

// Close releases the resources held by src, if any
func Close(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// planParts collects the entity groups of one plan; every fetch writes its own field
type planParts struct {
	profile     domain.Profile
	found       bool
	family      []domain.FamilyMember
	items       []domain.CashFlowItem
	projects    []domain.Project
	balance     domain.BalanceSheet
	scenarios   []domain.Scenario
	assumptions *domain.AssumptionOverrides
}

type fetch struct {
	entity string
	run    func(ctx context.Context, parts *planParts) error
}

// gather runs the fetches of one plan concurrently and assembles the plan once all of
// them succeeded. The first failure cancels the others and no plan is returned.
func gather(ctx context.Context, id string, fetches []fetch) (*domain.Plan, error) {
	var parts planParts

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fetches {
		f := f
		g.Go(func() error {
			if err := f.run(gctx, &parts); err != nil {
				return fmt.Errorf("load %s of plan %s: %w", f.entity, id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !parts.found {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}

	plan := &domain.Plan{
		Profile:       parts.profile,
		FamilyMembers: parts.family,
		CashFlowItems: parts.items,
		Projects:      parts.projects,
		BalanceSheet:  parts.balance,
		Scenarios:     parts.scenarios,
		Assumptions:   parts.assumptions,
	}
	if err := config.NewInputParser().Normalize(plan); err != nil {
		return nil, fmt.Errorf("plan %s: %w", id, err)
	}
	return plan, nil
}
