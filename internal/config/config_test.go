package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "INFO" {
		t.Errorf("Expected LogLevel to be INFO, got %s", cfg.LogLevel)
	}
	if !cfg.Stalker.Enabled || cfg.Stalker.Port != "3210" {
		t.Errorf("Expected Stalker enabled on 3210, got %v/%s", cfg.Stalker.Enabled, cfg.Stalker.Port)
	}
	if !cfg.Xtream.Enabled || cfg.Xtream.Port != "3211" {
		t.Errorf("Expected Xtream enabled on 3211, got %v/%s", cfg.Xtream.Enabled, cfg.Xtream.Port)
	}
	if cfg.Xtream.StreamStubURL != DefaultStreamStubURL {
		t.Errorf("Expected default stream stub URL, got %s", cfg.Xtream.StreamStubURL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected ShutdownTimeout to be 10s, got %v", cfg.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.LogLevel = "TRACE" },
			wantErr: "Log level",
		},
		{
			name: "both servers disabled",
			mutate: func(cfg *Config) {
				cfg.Stalker.Enabled = false
				cfg.Xtream.Enabled = false
			},
			wantErr: "At least one",
		},
		{
			name:    "non numeric port",
			mutate:  func(cfg *Config) { cfg.Stalker.Port = "http" },
			wantErr: "Stalker port",
		},
		{
			name: "disabled server port is not checked",
			mutate: func(cfg *Config) {
				cfg.Xtream.Enabled = false
				cfg.Xtream.Port = ""
			},
		},
		{
			name:    "relative stub url",
			mutate:  func(cfg *Config) { cfg.Xtream.StreamStubURL = "/stub.m3u8" },
			wantErr: "stream stub URL",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(cfg *Config) { cfg.ShutdownTimeout = 0 },
			wantErr: "Shutdown timeout",
		},
		{
			name: "stalker scenario key is not a mac",
			mutate: func(cfg *Config) {
				cfg.Scenarios.Stalker = map[string]ScenarioConfig{"nope": {Name: "x"}}
			},
			wantErr: "not a MAC address",
		},
		{
			name: "xtream scenario key without separator",
			mutate: func(cfg *Config) {
				cfg.Scenarios.Xtream = map[string]ScenarioConfig{"user": {Name: "x"}}
			},
			wantErr: "username:password",
		},
		{
			name: "invalid scenario",
			mutate: func(cfg *Config) {
				cfg.Scenarios.Xtream = map[string]ScenarioConfig{"a:b": {Name: "x", ItemsPerCategory: -1}}
			},
			wantErr: "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
log_level: DEBUG
stalker:
  enabled: true
  address: 0.0.0.0
  port: "4000"
xtream:
  enabled: false
  port: "4001"
  public_url: http://mock.example:4001/
shutdown_timeout: 3s
scenarios:
  stalker:
    "AA:BB:CC:00:00:01":
      name: tiny
      seed: 7
      categories: {live: 1, vod: 1, series: 1}
      items_per_category: 2
      seasons_per_series: 1
      episodes_per_season: 2
  xtream:
    "old:account":
      name: old
      seed: 8
      status: Disabled
      expiry_date: "2021-06-30"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	if cfg.LogLevel != "DEBUG" {
		t.Errorf("Expected DEBUG, got %s", cfg.LogLevel)
	}
	if cfg.Stalker.Addr() != "0.0.0.0:4000" {
		t.Errorf("Expected 0.0.0.0:4000, got %s", cfg.Stalker.Addr())
	}
	if cfg.Xtream.Enabled {
		t.Error("Expected Xtream to be disabled")
	}
	if cfg.Xtream.Address != "127.0.0.1" {
		t.Errorf("Expected default Xtream address to survive, got %s", cfg.Xtream.Address)
	}
	if cfg.XtreamPublicURL() != "http://mock.example:4001" {
		t.Errorf("Expected trimmed public URL, got %s", cfg.XtreamPublicURL())
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("Expected 3s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}

	stalker, err := cfg.StalkerScenarios()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	tiny := stalker["AA:BB:CC:00:00:01"]
	if tiny.Name != "tiny" || tiny.Seed != 7 || tiny.Categories.Vod != 1 || tiny.Status != scenario.StatusActive {
		t.Errorf("Unexpected stalker scenario: %+v", tiny)
	}

	xtream, err := cfg.XtreamScenarios()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	old := xtream["old:account"]
	if old.Status != scenario.StatusDisabled {
		t.Errorf("Expected Disabled, got %s", old.Status)
	}
	if want := time.Date(2021, time.June, 30, 0, 0, 0, 0, time.UTC); !old.ExpiresAt.Equal(want) {
		t.Errorf("Expected expiry %v, got %v", want, old.ExpiresAt)
	}
}

func TestLoadFromFile_LowerCaseLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected lower-case log level to validate, got %v", err)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("Expected DEBUG, got %s", cfg.LogLevel)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("stalker: [unclosed"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STALKER_PORT", "5000")
	t.Setenv("XTREAM_ENABLED", "false")
	t.Setenv("XTREAM_PUBLIC_URL", "https://portal.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.LogLevel != "WARN" {
		t.Errorf("Expected WARN, got %s", cfg.LogLevel)
	}
	if cfg.Stalker.Port != "5000" {
		t.Errorf("Expected port 5000, got %s", cfg.Stalker.Port)
	}
	if cfg.Xtream.Enabled {
		t.Error("Expected Xtream to be disabled")
	}
	if cfg.XtreamPublicURL() != "https://portal.example" {
		t.Errorf("Unexpected public URL %s", cfg.XtreamPublicURL())
	}
	if cfg.ShutdownTimeout != time.Minute {
		t.Errorf("Expected 1m, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{env: "STALKER_PORT", value: "99999"},
		{env: "XTREAM_ENABLED", value: "maybe"},
		{env: "SHUTDOWN_TIMEOUT", value: "-1s"},
		{env: "LOG_LEVEL", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
			t.Setenv(tt.env, tt.value)

			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tt.env) {
				t.Errorf("Expected error mentioning %s, got %v", tt.env, err)
			}
		})
	}
}

func TestXtreamPublicURL_Default(t *testing.T) {
	cfg := Default()
	if got := cfg.XtreamPublicURL(); got != "http://localhost:3211" {
		t.Errorf("Expected http://localhost:3211, got %s", got)
	}
}

func TestScenarioConfig_ToScenario(t *testing.T) {
	sc := ScenarioConfig{Name: "x", ExpiryDate: "31/12/2030"}
	if _, err := sc.ToScenario(); err == nil {
		t.Error("Expected error for malformed expiry date")
	}

	sc = ScenarioConfig{Name: "x", Status: "Frozen"}
	if _, err := sc.ToScenario(); err == nil {
		t.Error("Expected error for unknown status")
	}

	sc = ScenarioConfig{Name: "x"}
	s, err := sc.ToScenario()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.ExpiresAt.Year() != 2099 {
		t.Errorf("Expected far-future expiry, got %v", s.ExpiresAt)
	}
}
