package server

import (
	"context"
	"fmt"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs periodic maintenance jobs next to the API
type Scheduler struct {
	cron   *cron.Cron
	logger *logrus.Logger
}

// NewScheduler creates a stopped scheduler; jobs skip a tick while their previous run is still going
func NewScheduler(logger *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
	}
}

// AddCachePurge drops every memoized projection on schedule
func (s *Scheduler) AddCachePurge(spec string, cache *calculation.ProjectionCache) error {
	if spec == "" || cache == nil {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		stats := cache.Stats()
		cache.Purge()
		s.logger.WithFields(logrus.Fields{
			"entries": stats.Entries,
			"hits":    stats.Hits,
			"misses":  stats.Misses,
		}).Info("projection cache purged")
	})
	if err != nil {
		return fmt.Errorf("invalid cache purge schedule %q: %w", spec, err)
	}
	return nil
}

// AddReportJob renders the report job on schedule, each run bounded by timeout
func (s *Scheduler) AddReportJob(spec string, job *ReportJob, timeout time.Duration) error {
	if spec == "" {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := job.Run(ctx); err != nil {
			s.logger.Errorf("scheduled report failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}
	return nil
}

// Len returns the number of registered jobs
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

// Start begins running jobs in the background
func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
