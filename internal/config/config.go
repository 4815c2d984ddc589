package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	CMS       CMSConfig       `yaml:"cms"`
	Loans     LoanConfig      `yaml:"loans"`
	Session   SessionConfig   `yaml:"session"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
	Cache     CacheConfig     `yaml:"cache"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP gateway settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CMSConfig contains the headless CMS connection settings
type CMSConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RetryAttempts  int    `yaml:"retry_attempts"`
	RetryDelayMS   int    `yaml:"retry_delay_ms"`
	// Static fallback tokens per role, used when no session token is
	// presented. Keys are normalized role names (admin, staff, student).
	RoleTokens map[string]string `yaml:"role_tokens"`
}

// LoanConfig contains the lending policy knobs
type LoanConfig struct {
	DailyFineRate        int `yaml:"daily_fine_rate"`
	MaxRenewals          int `yaml:"max_renewals"`
	DefaultLoanDays      int `yaml:"default_loan_days"`
	MaxRenewalWindowDays int `yaml:"max_renewal_window_days"`
	MaxActiveLoans       int `yaml:"max_active_loans"`
}

// SessionConfig contains durable session storage settings
type SessionConfig struct {
	Dir string `yaml:"dir"`
}

// EmailConfig contains SendGrid settings for reminder notices
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// CacheConfig contains book metadata cache settings
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
	TTLMinutes int `yaml:"ttl_minutes"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepOverdueLoans    string `yaml:"sweep_overdue_loans"`
	SendDueSoonReminders string `yaml:"send_due_soon_reminders"`
	SendOverdueNotices   string `yaml:"send_overdue_notices"`
	AuditInventory       string `yaml:"audit_inventory"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("CMS_BASE_URL"); val != "" {
		c.CMS.BaseURL = val
	}
	if val := os.Getenv("CMS_TIMEOUT_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.CMS.TimeoutSeconds)
	}
	if val := os.Getenv("CMS_ADMIN_TOKEN"); val != "" {
		if c.CMS.RoleTokens == nil {
			c.CMS.RoleTokens = map[string]string{}
		}
		c.CMS.RoleTokens["admin"] = val
	}
	if val := os.Getenv("CMS_STAFF_TOKEN"); val != "" {
		if c.CMS.RoleTokens == nil {
			c.CMS.RoleTokens = map[string]string{}
		}
		c.CMS.RoleTokens["staff"] = val
	}

	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("SESSION_DIR"); val != "" {
		c.Session.Dir = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks the configuration and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.CMS.BaseURL == "" {
		return fmt.Errorf("cms base_url is required")
	}
	if !strings.HasPrefix(c.CMS.BaseURL, "http://") && !strings.HasPrefix(c.CMS.BaseURL, "https://") {
		return fmt.Errorf("cms base_url must be an http(s) URL: %s", c.CMS.BaseURL)
	}
	if c.CMS.TimeoutSeconds <= 0 {
		c.CMS.TimeoutSeconds = 10
	}
	if c.CMS.RetryAttempts <= 0 {
		c.CMS.RetryAttempts = 3
	}
	if c.CMS.RetryDelayMS <= 0 {
		c.CMS.RetryDelayMS = 500
	}

	// Lending policy defaults
	if c.Loans.DailyFineRate <= 0 {
		c.Loans.DailyFineRate = 5
	}
	if c.Loans.MaxRenewals <= 0 {
		c.Loans.MaxRenewals = 2
	}
	if c.Loans.DefaultLoanDays <= 0 {
		c.Loans.DefaultLoanDays = 7
	}
	if c.Loans.MaxRenewalWindowDays <= 0 {
		c.Loans.MaxRenewalWindowDays = 30
	}
	if c.Loans.MaxActiveLoans <= 0 {
		c.Loans.MaxActiveLoans = 3
	}

	if c.Session.Dir == "" {
		return fmt.Errorf("session dir is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 512
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 5
	}

	// Scheduler defaults (seconds precision, UTC)
	if c.Scheduler.SweepOverdueLoans == "" {
		c.Scheduler.SweepOverdueLoans = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendDueSoonReminders == "" {
		c.Scheduler.SendDueSoonReminders = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.SendOverdueNotices == "" {
		c.Scheduler.SendOverdueNotices = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.AuditInventory == "" {
		c.Scheduler.AuditInventory = "0 30 2 * * *" // 2:30 AM UTC
	}

	return nil
}

// ClientTimeout returns the per-request CMS timeout
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.CMS.TimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed delay between CMS retry attempts
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.CMS.RetryDelayMS) * time.Millisecond
}

// CacheTTL returns the book cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// GetServerAddress returns the HTTP gateway listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
