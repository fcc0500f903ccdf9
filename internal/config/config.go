package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

// DefaultStreamStubURL is where Xtream stream URLs are redirected.
const DefaultStreamStubURL = "https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8"

// ServerConfig holds the listener settings of one mock server.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    string `yaml:"port"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Address, s.Port)
}

// ScenarioConfig is the YAML form of a named scenario.
type ScenarioConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Seed        uint64 `yaml:"seed"`
	Categories  struct {
		Live   int `yaml:"live"`
		Vod    int `yaml:"vod"`
		Series int `yaml:"series"`
	} `yaml:"categories"`
	ItemsPerCategory       int     `yaml:"items_per_category"`
	SeasonsPerSeries       int     `yaml:"seasons_per_series"`
	EpisodesPerSeason      int     `yaml:"episodes_per_season"`
	IsSeriesFraction       float64 `yaml:"is_series_fraction"`
	EmbeddedSeriesFraction float64 `yaml:"embedded_series_fraction"`
	// Status is Active (default) or Disabled.
	Status string `yaml:"status"`
	// ExpiryDate is YYYY-MM-DD; empty means the account never expires.
	ExpiryDate string `yaml:"expiry_date"`
}

// ToScenario converts the YAML form into a validated scenario.
func (sc ScenarioConfig) ToScenario() (scenario.Scenario, error) {
	status, err := scenario.ParseStatus(sc.Status)
	if err != nil {
		return scenario.Scenario{}, err
	}

	expires := time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)
	if sc.ExpiryDate != "" {
		expires, err = time.Parse(time.DateOnly, sc.ExpiryDate)
		if err != nil {
			return scenario.Scenario{}, fmt.Errorf("invalid expiry_date %q (expected YYYY-MM-DD): %w", sc.ExpiryDate, err)
		}
	}

	s := scenario.Scenario{
		Name:                   sc.Name,
		Description:            sc.Description,
		Seed:                   sc.Seed,
		Categories:             scenario.Counts{Live: sc.Categories.Live, Vod: sc.Categories.Vod, Series: sc.Categories.Series},
		ItemsPerCategory:       sc.ItemsPerCategory,
		SeasonsPerSeries:       sc.SeasonsPerSeries,
		EpisodesPerSeason:      sc.EpisodesPerSeason,
		IsSeriesFraction:       sc.IsSeriesFraction,
		EmbeddedSeriesFraction: sc.EmbeddedSeriesFraction,
		Status:                 status,
		ExpiresAt:              expires,
	}
	if err := s.Validate(); err != nil {
		return scenario.Scenario{}, err
	}
	return s, nil
}

// Config holds the complete application configuration
type Config struct {
	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level"`

	// Stalker portal server settings
	Stalker ServerConfig `yaml:"stalker"`

	// Xtream Codes server settings
	Xtream struct {
		ServerConfig `yaml:",inline"`
		// PublicURL is reported in server_info; defaults to http://localhost:<port>.
		PublicURL     string `yaml:"public_url"`
		StreamStubURL string `yaml:"stream_stub_url"`
	} `yaml:"xtream"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Extra named scenarios merged over the built-in tables
	Scenarios struct {
		// Stalker scenarios keyed by MAC address
		Stalker map[string]ScenarioConfig `yaml:"stalker"`
		// Xtream scenarios keyed by "username:password"
		Xtream map[string]ScenarioConfig `yaml:"xtream"`
	} `yaml:"scenarios"`
}

// XtreamPublicURL returns the base URL clients should use for the Xtream server.
func (c *Config) XtreamPublicURL() string {
	if c.Xtream.PublicURL != "" {
		return strings.TrimRight(c.Xtream.PublicURL, "/")
	}
	return "http://localhost:" + c.Xtream.Port
}

// StalkerScenarios converts the configured Stalker scenarios.
func (c *Config) StalkerScenarios() (map[string]scenario.Scenario, error) {
	return convertScenarios(c.Scenarios.Stalker)
}

// XtreamScenarios converts the configured Xtream scenarios.
func (c *Config) XtreamScenarios() (map[string]scenario.Scenario, error) {
	return convertScenarios(c.Scenarios.Xtream)
}

func convertScenarios(in map[string]ScenarioConfig) (map[string]scenario.Scenario, error) {
	out := make(map[string]scenario.Scenario, len(in))
	for key, sc := range in {
		s, err := sc.ToScenario()
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", key, err)
		}
		out[key] = s
	}
	return out, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	if !validLogLevels[c.LogLevel] {
		errors = append(errors, "Log level must be one of: DEBUG, INFO, WARN, ERROR")
	}

	if !c.Stalker.Enabled && !c.Xtream.Enabled {
		errors = append(errors, "At least one of the Stalker or Xtream servers must be enabled")
	}
	errors = append(errors, validateServer("Stalker", c.Stalker)...)
	errors = append(errors, validateServer("Xtream", c.Xtream.ServerConfig)...)

	if c.Xtream.PublicURL != "" && !isAbsoluteURL(c.Xtream.PublicURL) {
		errors = append(errors, "Xtream public URL must be an absolute http(s) URL")
	}
	if !isAbsoluteURL(c.Xtream.StreamStubURL) {
		errors = append(errors, "Xtream stream stub URL must be an absolute http(s) URL")
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, "Shutdown timeout must be positive")
	}

	for _, mac := range sortedKeys(c.Scenarios.Stalker) {
		if _, ok := scenario.NormalizeMAC(mac); !ok {
			errors = append(errors, fmt.Sprintf("Stalker scenario %q: key is not a MAC address", mac))
			continue
		}
		if _, err := c.Scenarios.Stalker[mac].ToScenario(); err != nil {
			errors = append(errors, fmt.Sprintf("Stalker scenario %q: %v", mac, err))
		}
	}
	for _, key := range sortedKeys(c.Scenarios.Xtream) {
		if !strings.Contains(key, ":") {
			errors = append(errors, fmt.Sprintf("Xtream scenario %q: key must be username:password", key))
			continue
		}
		if _, err := c.Scenarios.Xtream[key].ToScenario(); err != nil {
			errors = append(errors, fmt.Sprintf("Xtream scenario %q: %v", key, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateServer(name string, s ServerConfig) []string {
	if !s.Enabled {
		return nil
	}
	var errors []string
	if s.Address == "" {
		errors = append(errors, fmt.Sprintf("%s address is required", name))
	}
	if port, err := strconv.Atoi(s.Port); err != nil || port <= 0 || port > 65535 {
		errors = append(errors, fmt.Sprintf("%s port must be a number between 1 and 65535", name))
	}
	return errors
}

var validLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func sortedKeys(m map[string]ScenarioConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.LogLevel = "INFO"

	// Stalker defaults
	cfg.Stalker.Enabled = true
	cfg.Stalker.Address = "127.0.0.1"
	cfg.Stalker.Port = "3210"

	// Xtream defaults
	cfg.Xtream.Enabled = true
	cfg.Xtream.Address = "127.0.0.1"
	cfg.Xtream.Port = "3211"
	cfg.Xtream.StreamStubURL = DefaultStreamStubURL

	cfg.ShutdownTimeout = 10 * time.Second

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)

	return cfg, nil
}

// Load loads configuration from a file (if provided) and applies environment variable overrides
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	// Try to load from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg = Default()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	p := &envParser{}

	p.parseEnum("LOG_LEVEL", &cfg.LogLevel, validLogLevels)

	p.parseBool("STALKER_ENABLED", &cfg.Stalker.Enabled)
	p.parseString("STALKER_ADDRESS", &cfg.Stalker.Address)
	p.parsePort("STALKER_PORT", &cfg.Stalker.Port)

	p.parseBool("XTREAM_ENABLED", &cfg.Xtream.Enabled)
	p.parseString("XTREAM_ADDRESS", &cfg.Xtream.Address)
	p.parsePort("XTREAM_PORT", &cfg.Xtream.Port)
	p.parseString("XTREAM_PUBLIC_URL", &cfg.Xtream.PublicURL)
	p.parseString("XTREAM_STREAM_STUB_URL", &cfg.Xtream.StreamStubURL)

	p.parseDuration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	if len(p.errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(p.errors, "\n  - "))
	}
	return nil
}

// envParser is a helper for parsing environment variables with validation
type envParser struct {
	errors []string
}

func (p *envParser) parseString(envName string, target *string) {
	if val := os.Getenv(envName); val != "" {
		*target = val
	}
}

// parseBool accepts the forms understood by strconv.ParseBool
func (p *envParser) parseBool(envName string, target *bool) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: must be true or false", envName))
		return
	}
	*target = b
}

// parsePort parses a TCP port number
func (p *envParser) parsePort(envName string, target *string) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	port, err := strconv.Atoi(val)
	if err != nil || port <= 0 || port > 65535 {
		p.errors = append(p.errors, fmt.Sprintf("%s: must be a port number between 1 and 65535", envName))
		return
	}
	*target = val
}

// parseDuration parses a duration environment variable, ensuring it's positive
func (p *envParser) parseDuration(envName string, target *time.Duration) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: invalid duration format (use '30s', '1m', etc.)", envName))
		return
	}

	if duration <= 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must be positive", envName))
		return
	}

	*target = duration
}

// parseEnum parses an enum environment variable from a set of valid values
func (p *envParser) parseEnum(envName string, target *string, validValues map[string]bool) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	normalized := strings.ToUpper(val)
	if !validValues[normalized] {
		var validList []string
		for k := range validValues {
			validList = append(validList, k)
		}
		sort.Strings(validList)
		p.errors = append(p.errors, fmt.Sprintf("%s must be one of: %s", envName, strings.Join(validList, ", ")))
		return
	}

	*target = normalized
}
