package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meltforce/kcalm/internal/models"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "kcalm"
  user: "kcalm"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
units:
  weight: "lb"
  energy: "kcal"
maintenance:
  mode: "adaptive"
  use_estimate_as_fallback: false
  interval_value: 2
  interval_unit: "week"
  min_adaptive_kcal: 1200
  resting_equation: "katch_mcardle"
  activity_level: "moderate"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all
// fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Units.Weight != models.WeightLb {
		t.Errorf("units.weight = %q, want lb", cfg.Units.Weight)
	}
	if cfg.Maintenance.IntervalValue != 2 {
		t.Errorf("interval_value = %d, want 2", cfg.Maintenance.IntervalValue)
	}
}

// TestSettingsFromConfig verifies the maintenance section maps onto the
// per-pass settings snapshot with defaults filling the gaps.
func TestSettingsFromConfig(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Maintenance.Settings()
	if s.Interval.NumberOfDays() != 14 {
		t.Errorf("interval days = %d, want 14", s.Interval.NumberOfDays())
	}
	if s.UseEstimateAsFallback {
		t.Error("fallback should be disabled by config")
	}
	if s.MinimumAdaptiveKcal != 1200 {
		t.Errorf("floor = %v, want 1200", s.MinimumAdaptiveKcal)
	}
	if s.DietaryDays != models.DefaultDietaryDays {
		t.Errorf("dietary days = %d, want default %d", s.DietaryDays, models.DefaultDietaryDays)
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := MaintenanceConfig{}.Settings()
	if s.Mode != models.MaintenanceAdaptive {
		t.Errorf("default mode = %q, want adaptive", s.Mode)
	}
	if !s.UseEstimateAsFallback {
		t.Error("fallback should default to enabled")
	}
	if s.Interval.NumberOfDays() != 7 {
		t.Errorf("default interval days = %d, want 7", s.Interval.NumberOfDays())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KCALM_SERVER_PORT", "9090")
	t.Setenv("KCALM_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want env override 9090", cfg.Server.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("api_key = %q, want env override", cfg.Auth.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing api key", `
server: {port: 8080}
database: {host: h, port: 5432, name: n, user: u}
`},
		{"bad weight unit", `
server: {port: 8080}
database: {host: h, port: 5432, name: n, user: u}
auth: {api_key: k}
units: {weight: "stone"}
`},
		{"zero interval", `
server: {port: 8080}
database: {host: h, port: 5432, name: n, user: u}
auth: {api_key: k}
maintenance: {interval_value: 0, interval_unit: "week"}
`},
		{"unknown equation", `
server: {port: 8080}
database: {host: h, port: 5432, name: n, user: u}
auth: {api_key: k}
maintenance: {resting_equation: "vibes"}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tt.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
