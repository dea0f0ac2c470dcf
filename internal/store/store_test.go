package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileFetch(p *planParts) error {
	p.profile = domain.Profile{ID: "p1", Name: "One"}
	p.found = true
	return nil
}

func scenarioFetch(p *planParts) error {
	p.scenarios = []domain.Scenario{{
		Name: "base",
		Parameters: domain.SimulationParameters{
			RetirementAge:       65,
			MonthlyContribution: decimal.NewFromInt(1000),
		},
	}}
	return nil
}

func TestGather(t *testing.T) {
	t.Run("assembles once every fetch completed", func(t *testing.T) {
		plan, err := gather(context.Background(), "p1", []fetch{
			{"profile", func(_ context.Context, p *planParts) error { return profileFetch(p) }},
			{"scenarios", func(_ context.Context, p *planParts) error {
				time.Sleep(20 * time.Millisecond)
				return scenarioFetch(p)
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, "p1", plan.Profile.ID)
		require.Len(t, plan.Scenarios, 1)
	})

	t.Run("failure cancels siblings and returns no plan", func(t *testing.T) {
		siblingCancelled := make(chan bool, 1)
		plan, err := gather(context.Background(), "p1", []fetch{
			{"profile", func(_ context.Context, p *planParts) error { return profileFetch(p) }},
			{"projects", func(context.Context, *planParts) error { return errors.New("connection reset") }},
			{"scenarios", func(ctx context.Context, p *planParts) error {
				select {
				case <-ctx.Done():
					siblingCancelled <- true
					return ctx.Err()
				case <-time.After(2 * time.Second):
					siblingCancelled <- false
					return scenarioFetch(p)
				}
			}},
		})
		assert.Nil(t, plan)
		assert.ErrorContains(t, err, "load projects of plan p1: connection reset")
		assert.True(t, <-siblingCancelled)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := gather(context.Background(), "ghost", []fetch{
			{"scenarios", func(_ context.Context, p *planParts) error { return scenarioFetch(p) }},
		})
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("assembled plan is validated", func(t *testing.T) {
		_, err := gather(context.Background(), "p1", []fetch{
			{"profile", func(_ context.Context, p *planParts) error { return profileFetch(p) }},
		})
		assert.ErrorContains(t, err, "no scenarios provided")
	})
}

func TestOpen(t *testing.T) {
	src, err := Open(&config.ServiceConfig{Source: config.SourceFile, PlanDir: "plans"})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)
	assert.NoError(t, Close(src))

	src, err = Open(&config.ServiceConfig{Source: config.SourceREST, RESTURL: "http://localhost:3000"})
	require.NoError(t, err)
	assert.IsType(t, &RESTSource{}, src)

	_, err = Open(&config.ServiceConfig{Source: "ftp"})
	assert.Error(t, err)
}
