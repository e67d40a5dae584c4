package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/meltforce/kcalm/internal/maintenance"
	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/recalc"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Tailscale   TailscaleConfig   `yaml:"tailscale"`
	Units       UnitsConfig       `yaml:"units"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// UnitsConfig holds display-unit preferences. Storage is always kg/kcal.
type UnitsConfig struct {
	Weight models.WeightUnit `yaml:"weight"`
	Energy models.EnergyUnit `yaml:"energy"`
}

// MaintenanceConfig holds the default resolution choices consumed once per
// recalculation pass.
type MaintenanceConfig struct {
	Mode                  models.MaintenanceMode    `yaml:"mode"`
	UseEstimateAsFallback *bool                     `yaml:"use_estimate_as_fallback"`
	IntervalValue         int                       `yaml:"interval_value"`
	IntervalUnit          models.IntervalUnit       `yaml:"interval_unit"`
	DietaryDays           int                       `yaml:"dietary_days"`
	MinAdaptiveKcal       float64                   `yaml:"min_adaptive_kcal"`
	RestingEquation       maintenance.Equation      `yaml:"resting_equation"`
	ActivityLevel         maintenance.ActivityLevel `yaml:"activity_level"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Settings converts the maintenance section into the per-pass snapshot,
// filling unset fields from the defaults.
func (m MaintenanceConfig) Settings() recalc.Settings {
	s := recalc.DefaultSettings()
	if m.Mode != "" {
		s.Mode = m.Mode
	}
	if m.UseEstimateAsFallback != nil {
		s.UseEstimateAsFallback = *m.UseEstimateAsFallback
	}
	if m.IntervalValue > 0 && m.IntervalUnit != "" {
		s.Interval = models.Interval{Value: m.IntervalValue, Unit: m.IntervalUnit}
	}
	if m.DietaryDays > 0 {
		s.DietaryDays = m.DietaryDays
	}
	if m.MinAdaptiveKcal > 0 {
		s.MinimumAdaptiveKcal = m.MinAdaptiveKcal
	}
	if m.RestingEquation != "" {
		s.RestingEquation = m.RestingEquation
	}
	if m.ActivityLevel != "" {
		s.ActivityLevel = m.ActivityLevel
	}
	return s
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix KCALM_ and underscore-separated paths:
//
//	KCALM_SERVER_HOST, KCALM_SERVER_PORT,
//	KCALM_DB_HOST, KCALM_DB_PORT, KCALM_DB_NAME,
//	KCALM_DB_USER, KCALM_DB_PASSWORD, KCALM_DB_SSLMODE,
//	KCALM_AUTH_API_KEY, KCALM_TS_HOSTNAME, KCALM_TS_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KCALM_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("KCALM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("KCALM_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("KCALM_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("KCALM_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("KCALM_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("KCALM_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("KCALM_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("KCALM_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("KCALM_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("KCALM_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if u := c.Units.Weight; u != "" && u != models.WeightKg && u != models.WeightLb {
		return fmt.Errorf("units.weight must be kg or lb, got %q", u)
	}
	if u := c.Units.Energy; u != "" && u != models.EnergyKcal && u != models.EnergyKJ {
		return fmt.Errorf("units.energy must be kcal or kj, got %q", u)
	}
	m := c.Maintenance
	if m.Mode != "" && m.Mode != models.MaintenanceAdaptive && m.Mode != models.MaintenanceEstimated {
		return fmt.Errorf("maintenance.mode must be adaptive or estimated, got %q", m.Mode)
	}
	if m.IntervalValue != 0 || m.IntervalUnit != "" {
		interval := models.Interval{Value: m.IntervalValue, Unit: m.IntervalUnit}
		if err := interval.Validate(); err != nil {
			return fmt.Errorf("maintenance interval: %w", err)
		}
	}
	if m.RestingEquation != "" && !maintenance.ValidEquation(m.RestingEquation) {
		return fmt.Errorf("unknown maintenance.resting_equation %q", m.RestingEquation)
	}
	if m.ActivityLevel != "" && !maintenance.ValidActivityLevel(m.ActivityLevel) {
		return fmt.Errorf("unknown maintenance.activity_level %q", m.ActivityLevel)
	}
	return nil
}
