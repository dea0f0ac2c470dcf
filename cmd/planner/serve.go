package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/server"
	"github.com/LuizHUlmi/profiles-sub000/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over HTTP",
	Long: `Starts the projection API. Settings come from the environment
(PLANNER_ADDR, PLANNER_SOURCE, PLANNER_PLAN_DIR, DATABASE_URL, PLANNER_REST_URL,
PLANNER_REST_KEY, LOG_LEVEL, PLANNER_CACHE_SIZE, PLANNER_CACHE_PURGE_SCHEDULE,
PLANNER_REPORT_SCHEDULE, PLANNER_REPORT_DIR); flags override them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serviceConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newServiceLogger(cfg.LogLevel)
		if err != nil {
			return err
		}

		src, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer store.Close(src)

		cache := calculation.NewProjectionCache(cfg.CacheSize)
		engine := calculation.NewCalculationEngine().WithCache(cache)
		engine.SetLogger(logger)

		scheduler := server.NewScheduler(logger)
		if err := scheduler.AddCachePurge(cfg.CachePurgeSchedule, cache); err != nil {
			return err
		}
		reportJob := &server.ReportJob{
			Source:  src,
			Engine:  engine,
			Dir:     cfg.ReportDir,
			Formats: []string{"json", "svg"},
			Logger:  logger,
		}
		if err := scheduler.AddReportJob(cfg.ReportSchedule, reportJob, 5*time.Minute); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(src, engine, logger).Run(ctx, cfg.Addr, cfg.ReadTimeout, cfg.WriteTimeout)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render reports for every plan of the configured source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serviceConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newServiceLogger(cfg.LogLevel)
		if err != nil {
			return err
		}

		src, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer store.Close(src)

		formats, _ := cmd.Flags().GetStringSlice("format")
		job := &server.ReportJob{
			Source:  src,
			Engine:  calculation.NewCalculationEngine(),
			Dir:     cfg.ReportDir,
			Formats: formats,
			Logger:  logger,
		}
		job.Engine.SetLogger(logger)

		result, err := job.Run(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range result.Files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d of the plans failed to render", len(result.Failed))
		}
		return nil
	},
}

// serviceConfig loads the environment configuration and applies flag overrides
func serviceConfig(cmd *cobra.Command) (*config.ServiceConfig, error) {
	cfg, err := config.NewServiceConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	overrides := map[string]*string{
		"addr":      &cfg.Addr,
		"source":    &cfg.Source,
		"plan-dir":  &cfg.PlanDir,
		"log-level": &cfg.LogLevel,
		"dir":       &cfg.ReportDir,
	}
	for name, field := range overrides {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}
	if flags.Lookup("cache-size") != nil && flags.Changed("cache-size") {
		cfg.CacheSize, _ = flags.GetInt("cache-size")
	}

	return cfg, cfg.Validate()
}

// newServiceLogger returns a JSON logger at the configured level
func newServiceLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PLANNER_ADDR)")
	serveCmd.Flags().String("source", "", "Plan source: file, postgres or rest (overrides PLANNER_SOURCE)")
	serveCmd.Flags().String("plan-dir", "", "Plan directory for the file source (overrides PLANNER_PLAN_DIR)")
	serveCmd.Flags().String("log-level", "", "Log level (overrides LOG_LEVEL)")
	serveCmd.Flags().Int("cache-size", 0, "Projection cache entries (overrides PLANNER_CACHE_SIZE)")

	reportCmd.Flags().String("source", "", "Plan source: file, postgres or rest (overrides PLANNER_SOURCE)")
	reportCmd.Flags().String("plan-dir", "", "Plan directory for the file source (overrides PLANNER_PLAN_DIR)")
	reportCmd.Flags().String("dir", "", "Output directory (overrides PLANNER_REPORT_DIR)")
	reportCmd.Flags().String("log-level", "", "Log level (overrides LOG_LEVEL)")
	reportCmd.Flags().StringSlice("format", []string{"html", "svg"}, "Formats to render (console, json, csv, html, svg)")
}
