package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	HERE       HEREConfig       `mapstructure:"here"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Session    SessionConfig    `mapstructure:"session"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// HEREConfig configures the HERE geocoding and places provider.
type HEREConfig struct {
	APIKey      string `mapstructure:"api_key"`
	GeocodeURL  string `mapstructure:"geocode_url"`
	DiscoverURL string `mapstructure:"discover_url"`
	RadiusM     int    `mapstructure:"radius_m"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// OpenRouterConfig configures the chat model provider.
type OpenRouterConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// SessionConfig bounds conversation state.
type SessionConfig struct {
	MaxTurns   int `mapstructure:"max_turns"`
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("here.api_key", "")
	v.SetDefault("here.geocode_url", "https://geocode.search.hereapi.com/v1/geocode")
	v.SetDefault("here.discover_url", "https://discover.search.hereapi.com/v1/discover")
	v.SetDefault("here.radius_m", 1500)
	v.SetDefault("here.timeout_secs", 10)
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "anthropic/claude-3-haiku")
	v.SetDefault("openrouter.timeout_secs", 25)
	v.SetDefault("session.max_turns", 20)
	v.SetDefault("session.ttl_minutes", 30)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "parksy")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "parksy")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: PARKSY_HERE_API_KEY → here.api_key
	v.SetEnvPrefix("PARKSY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
// The HERE and OpenRouter keys are not required here: the service degrades
// to clarification and canned replies without them.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.HERE.RadiusM <= 0 {
		errs = append(errs, "here.radius_m must be positive")
	}
	if c.HERE.GeocodeURL == "" {
		errs = append(errs, "here.geocode_url is required")
	}
	if c.HERE.DiscoverURL == "" {
		errs = append(errs, "here.discover_url is required")
	}
	if c.OpenRouter.BaseURL == "" {
		errs = append(errs, "openrouter.base_url is required")
	}
	if c.OpenRouter.Model == "" {
		errs = append(errs, "openrouter.model is required")
	}
	if c.Session.MaxTurns <= 0 {
		errs = append(errs, "session.max_turns must be positive")
	}
	if c.Session.TTLMinutes <= 0 {
		errs = append(errs, "session.ttl_minutes must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
