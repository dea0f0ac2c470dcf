package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Source kinds accepted by ServiceConfig.Source
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceREST     = "rest"
)

// ServiceConfig holds the settings of the long-running planner service
type ServiceConfig struct {
	Addr         string
	Source       string
	PlanDir      string
	DatabaseURL  string
	RESTURL      string
	RESTKey      string
	LogLevel     string
	CacheSize    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	CachePurgeSchedule string
	ReportSchedule     string
	ReportDir          string
}

// NewServiceConfig loads the service configuration from environment variables
func NewServiceConfig() (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		Addr:               getEnv("PLANNER_ADDR", ":8080"),
		Source:             getEnv("PLANNER_SOURCE", SourceFile),
		PlanDir:            getEnv("PLANNER_PLAN_DIR", "configs/plans"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RESTURL:            getEnv("PLANNER_REST_URL", ""),
		RESTKey:            getEnv("PLANNER_REST_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CachePurgeSchedule: getEnv("PLANNER_CACHE_PURGE_SCHEDULE", "@every 30m"),
		ReportSchedule:     getEnv("PLANNER_REPORT_SCHEDULE", ""),
		ReportDir:          getEnv("PLANNER_REPORT_DIR", "reports"),
	}

	var err error
	if cfg.CacheSize, err = getEnvInt("PLANNER_CACHE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = getEnvDuration("PLANNER_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getEnvDuration("PLANNER_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected source has what it needs
func (c *ServiceConfig) Validate() error {
	switch c.Source {
	case SourceFile:
		if c.PlanDir == "" {
			return fmt.Errorf("PLANNER_PLAN_DIR is required for the file source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres source")
		}
	case SourceREST:
		if c.RESTURL == "" {
			return fmt.Errorf("PLANNER_REST_URL is required for the rest source")
		}
	default:
		return fmt.Errorf("unknown plan source %q (want file, postgres or rest)", c.Source)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return v, nil
}
