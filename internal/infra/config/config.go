// Package config loads and validates the dispatcher's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"hermes/internal/domain"
)

// Config is the top-level application configuration.
type Config struct {
	Logger   LoggerConfig   `yaml:"logger"`
	Tracer   TracerConfig   `yaml:"tracer"`
	API      APIConfig      `yaml:"api"`
	Sessions SessionsConfig `yaml:"sessions"`
	Routing  RoutingConfig  `yaml:"routing"`
	Agents   []AgentConfig  `yaml:"agents"`
	Report   ReportConfig   `yaml:"report"`
	Filters  FiltersConfig  `yaml:"filters"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stdout, stderr or a file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout or noop
}

// APIConfig holds the REST surface settings.
type APIConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst int     `yaml:"rate_burst"`
}

// SessionsConfig holds session store settings.
type SessionsConfig struct {
	MaxIdle      time.Duration `yaml:"max_idle"`
	ReapSchedule string        `yaml:"reap_schedule"` // cron spec, e.g. "@every 5m"
}

// RoutingConfig selects and orders the dispatch strategies.
type RoutingConfig struct {
	// Strategies are chain members in order: trigger, keyword, regex, fixed.
	Strategies []string `yaml:"strategies"`
	// Fallback names the agent the fixed strategy binds to.
	Fallback string `yaml:"fallback"`
}

// AgentConfig defines one agent instance and its routing parameters.
type AgentConfig struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"` // echo, clock, knowledge, remote
	Keywords  []string `yaml:"keywords,omitempty"`
	Regex     []string `yaml:"regex,omitempty"`
	Triggers  []string `yaml:"triggers,omitempty"`
	Threshold int      `yaml:"threshold,omitempty"` // knowledge: ambiguous follow-up cap
	// Facts is the knowledge agent's fact table, entity name to answer.
	Facts     map[string]string `yaml:"facts,omitempty"`
	Endpoint  string            `yaml:"endpoint,omitempty"` // remote: HTTP endpoint
	AuthToken string            `yaml:"auth_token,omitempty"`
}
// ReportConfig holds the usage reporting settings.
type ReportConfig struct {
	Backends   []string `yaml:"backends"` // log, sqlite
	SQLitePath string   `yaml:"sqlite_path"`
}

// FiltersConfig holds request filter settings.
type FiltersConfig struct {
	WakeWords []string `yaml:"wake_words"`
}

var validKinds = map[string]bool{
	"echo":      true,
	"clock":     true,
	"knowledge": true,
	"remote":    true,
}

var validStrategies = map[string]bool{
	"trigger": true,
	"keyword": true,
	"regex":   true,
	"fixed":   true,
}

// Load reads, decrypts and validates the configuration at path. The
// passphrase decrypts "enc:" prefixed secret values; it may be empty when
// no value is encrypted.
func Load(path, passphrase string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrConfigLoad, path, err)
	}

	cfg.applyDefaults()
	if err := cfg.decryptSecrets(passphrase); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Agents: []AgentConfig{
			{Name: "clock", Kind: "clock", Keywords: []string{"time", "date", "today"}, Triggers: []string{"clock"}},
			{Name: "echo", Kind: "echo"},
		},
		Routing: RoutingConfig{Strategies: []string{"trigger", "keyword", "fixed"}, Fallback: "echo"},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "text"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stderr"
	}
	if c.API.Addr == "" {
		c.API.Addr = "127.0.0.1:8400"
	}
	if c.API.RateBurst == 0 {
		c.API.RateBurst = 10
	}
	if c.Sessions.MaxIdle == 0 {
		c.Sessions.MaxIdle = 30 * time.Minute
	}
	if c.Sessions.ReapSchedule == "" {
		c.Sessions.ReapSchedule = "@every 5m"
	}
	if len(c.Routing.Strategies) == 0 {
		c.Routing.Strategies = []string{"trigger", "keyword", "regex"}
	}
	if len(c.Report.Backends) == 0 {
		c.Report.Backends = []string{"log"}
	}
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("no agents configured")
	}

	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent with empty name")
		}
		if !validKinds[a.Kind] {
			return fmt.Errorf("agent %q: unknown kind %q", a.Name, a.Kind)
		}
		if a.Kind == "remote" && a.Endpoint == "" {
			return fmt.Errorf("agent %q: remote kind needs an endpoint", a.Name)
		}
		key := strings.ToLower(a.Name)
		if seen[key] {
			return fmt.Errorf("duplicate agent name %q", a.Name)
		}
		seen[key] = true
	}

	for _, s := range c.Routing.Strategies {
		if !validStrategies[s] {
			return fmt.Errorf("unknown routing strategy %q", s)
		}
		if s == "fixed" && c.Routing.Fallback == "" {
			return fmt.Errorf("fixed strategy needs routing.fallback")
		}
	}
	if c.Routing.Fallback != "" && !seen[strings.ToLower(c.Routing.Fallback)] {
		return fmt.Errorf("routing.fallback %q is not a configured agent", c.Routing.Fallback)
	}

	for _, b := range c.Report.Backends {
		switch b {
		case "log":
		case "sqlite":
			if c.Report.SQLitePath == "" {
				return fmt.Errorf("sqlite report backend needs report.sqlite_path")
			}
		default:
			return fmt.Errorf("unknown report backend %q", b)
		}
	}
	return nil
}

// decryptSecrets decrypts "enc:" prefixed values in place.
func (c *Config) decryptSecrets(passphrase string) error {
	for i := range c.Agents {
		tok := c.Agents[i].AuthToken
		if strings.HasPrefix(tok, "enc:") {
			plain, err := DecryptValue(strings.TrimPrefix(tok, "enc:"), passphrase)
			if err != nil {
				return fmt.Errorf("agent %s auth_token: %w", c.Agents[i].Name, err)
			}
			c.Agents[i].AuthToken = plain
		}
	}
	return nil
}
