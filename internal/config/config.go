// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Engagement    EngagementConfig    `yaml:"engagement"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Tracing       TracingConfig       `yaml:"tracing"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// ScoringConfig defines the match score weights and price decay band.
// The four weights must sum to 100.
type ScoringConfig struct {
	Weights       MatchWeights `yaml:"weights"`
	PriceDecayPct float64      `yaml:"price_decay_pct"`
}

// MatchWeights defines the points available per match score component.
type MatchWeights struct {
	Price    float64 `yaml:"price"`
	Rooms    float64 `yaml:"rooms"`
	Location float64 `yaml:"location"`
	Features float64 `yaml:"features"`
}

// EngagementConfig defines the engagement score parameters.
type EngagementConfig struct {
	TimeCeiling      time.Duration `yaml:"time_ceiling"`
	FullCreditViews  int           `yaml:"full_credit_views"`
	RecencyWindow    time.Duration `yaml:"recency_window"`
	StaleFactor      float64       `yaml:"stale_factor"`
	TimeWeight       float64       `yaml:"time_weight"`
	FrequencyWeight  float64       `yaml:"frequency_weight"`
	HotLeadThreshold int           `yaml:"hot_lead_threshold"`
}

// ScheduleConfig defines cron intervals for the background jobs.
type ScheduleConfig struct {
	MatchInterval      time.Duration `yaml:"match_interval"`
	EngagementInterval time.Duration `yaml:"engagement_interval"`
	StaggerOffset      time.Duration `yaml:"stagger_offset"`
}

// AlertsConfig defines alert dispatch behavior.
type AlertsConfig struct {
	// BatchThreshold is the pending-alert count per search above which a
	// single digest notification is sent instead of individual ones.
	BatchThreshold int `yaml:"batch_threshold"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// WebhookConfig defines webhook notification settings.
type WebhookConfig struct {
	Enabled    bool    `yaml:"enabled"`
	URL        string  `yaml:"url"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	Burst      int     `yaml:"burst"`
}

// TracingConfig defines OpenTelemetry export settings.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyScoringDefaults(&cfg.Scoring)
	applyEngagementDefaults(&cfg.Engagement)
	applyScheduleDefaults(&cfg.Schedule)
	applyAlertsDefaults(&cfg.Alerts)
	applyNotificationsDefaults(&cfg.Notifications)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyScoringDefaults(s *ScoringConfig) {
	zero := MatchWeights{}
	if s.Weights == zero {
		s.Weights = MatchWeights{Price: 40, Rooms: 20, Location: 20, Features: 20}
	}
	if s.PriceDecayPct == 0 {
		s.PriceDecayPct = 0.20
	}
}

func applyEngagementDefaults(e *EngagementConfig) {
	if e.TimeCeiling == 0 {
		e.TimeCeiling = 5 * time.Minute
	}
	if e.FullCreditViews == 0 {
		e.FullCreditViews = 10
	}
	if e.RecencyWindow == 0 {
		e.RecencyWindow = 30 * 24 * time.Hour
	}
	if e.StaleFactor == 0 {
		e.StaleFactor = 0.5
	}
	if e.TimeWeight == 0 && e.FrequencyWeight == 0 {
		e.TimeWeight = 60
		e.FrequencyWeight = 40
	}
	if e.HotLeadThreshold == 0 {
		e.HotLeadThreshold = 70
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.MatchInterval == 0 {
		s.MatchInterval = 15 * time.Minute
	}
	if s.EngagementInterval == 0 {
		s.EngagementInterval = 1 * time.Hour
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.BatchThreshold == 0 {
		a.BatchThreshold = 5
	}
}

func applyNotificationsDefaults(n *NotificationsConfig) {
	if n.Webhook.RatePerSec == 0 {
		n.Webhook.RatePerSec = 1.0
	}
	if n.Webhook.Burst == 0 {
		n.Webhook.Burst = 5
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "homescout"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	w := cfg.Scoring.Weights
	if sum := w.Price + w.Rooms + w.Location + w.Features; sum != 100 {
		errs = append(errs, fmt.Errorf("scoring.weights must sum to 100 (got %v)", sum))
	}

	if sum := cfg.Engagement.TimeWeight + cfg.Engagement.FrequencyWeight; sum != 100 {
		errs = append(errs, fmt.Errorf(
			"engagement.time_weight + engagement.frequency_weight must sum to 100 (got %v)", sum,
		))
	}
	if cfg.Engagement.StaleFactor < 0 || cfg.Engagement.StaleFactor > 1 {
		errs = append(errs, fmt.Errorf(
			"engagement.stale_factor must be in [0,1] (got %v)", cfg.Engagement.StaleFactor,
		))
	}

	if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL == "" {
		errs = append(errs, fmt.Errorf("notifications.webhook.url is required when enabled"))
	}

	return errors.Join(errs...)
}
