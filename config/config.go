package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http" envconfig:"HTTP"`
	Database DatabaseConfig `yaml:"database" envconfig:"DB"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Kafka    KafkaConfig    `yaml:"kafka" envconfig:"KAFKA"`
	Booking  BookingConfig  `yaml:"booking" envconfig:"BOOKING"`
	Search   SearchConfig   `yaml:"search" envconfig:"SEARCH"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
}

type HTTPConfig struct {
	Address                string   `yaml:"address" split_words:"true"`
	SwaggerDir             string   `yaml:"swagger_dir" split_words:"true"`
	SessionCookie          string   `yaml:"session_cookie" split_words:"true"`
	SessionTTLMinutes      int      `yaml:"session_ttl_minutes" split_words:"true"`
	SecureCookies          bool     `yaml:"secure_cookies" split_words:"true"`
	RateLimitPerSecond     float64  `yaml:"rate_limit_per_second" split_words:"true"`
	RateLimitBurst         int      `yaml:"rate_limit_burst" split_words:"true"`
	AllowedOrigins         []string `yaml:"allowed_origins" split_words:"true"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds" split_words:"true"`
	RequestTimeoutSeconds  int      `yaml:"request_timeout_seconds" split_words:"true"`
}

func (h HTTPConfig) RequestTimeout() time.Duration {
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host                  string `yaml:"host" split_words:"true"`
	Port                  int    `yaml:"port" split_words:"true"`
	User                  string `yaml:"user" split_words:"true"`
	Password              string `yaml:"password" split_words:"true"`
	Name                  string `yaml:"name" split_words:"true"`
	SSLMode               string `yaml:"ssl_mode" split_words:"true"`
	MaxConns              int32  `yaml:"max_conns" split_words:"true"`
	MinConns              int32  `yaml:"min_conns" split_words:"true"`
	AcquireTimeoutSeconds int    `yaml:"acquire_timeout_seconds" split_words:"true"`
}

// DSN builds a libpq keyword/value connection string. Values are quoted so
// passwords with spaces survive.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password='%s' dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, escapeDSN(d.Password), d.Name, d.SSLMode)
}

// Redacted is DSN without the password, for logs.
func (d DatabaseConfig) Redacted() string {
	u := url.URL{Scheme: "postgres", User: url.User(d.User), Host: fmt.Sprintf("%s:%d", d.Host, d.Port), Path: d.Name}
	return u.String()
}

func (d DatabaseConfig) AcquireTimeout() time.Duration {
	return time.Duration(d.AcquireTimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `yaml:"addr" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DB       int    `yaml:"db" split_words:"true"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" split_words:"true"`
	BookingEventsTopic string   `yaml:"booking_events_topic" split_words:"true"`
	NotificationsTopic string   `yaml:"notifications_topic" split_words:"true"`
	GroupID            string   `yaml:"group_id" split_words:"true"`
}

type BookingConfig struct {
	HoldTTLMinutes            int   `yaml:"hold_ttl_minutes" split_words:"true"`
	FlightsCacheTTL           int   `yaml:"flights_cache_ttl_seconds" split_words:"true"`
	DefaultPriceCents         int64 `yaml:"default_price_cents" split_words:"true"`
	BusinessMultiplierPercent int64 `yaml:"business_multiplier_percent" split_words:"true"`
	DefaultBaggage            int   `yaml:"default_baggage" split_words:"true"`
	MaxBaggage                int   `yaml:"max_baggage" split_words:"true"`
}

type SearchConfig struct {
	DemoFallback bool   `yaml:"demo_fallback" split_words:"true"`
	Timezone     string `yaml:"timezone" split_words:"true"`
}

type LogConfig struct {
	Level       string `yaml:"level" split_words:"true"`
	Development bool   `yaml:"development" split_words:"true"`
}

// LoadConfig reads the YAML file at path (optional when it does not exist),
// applies environment overrides such as DB_HOST or KAFKA_BROKERS, fills
// defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.SessionCookie == "" {
		c.HTTP.SessionCookie = "skybook_session"
	}
	if c.HTTP.SessionTTLMinutes == 0 {
		c.HTTP.SessionTTLMinutes = 60
	}
	if c.HTTP.RateLimitPerSecond == 0 {
		c.HTTP.RateLimitPerSecond = 20
	}
	if c.HTTP.RateLimitBurst == 0 {
		c.HTTP.RateLimitBurst = 40
	}
	if c.HTTP.ShutdownTimeoutSeconds == 0 {
		c.HTTP.ShutdownTimeoutSeconds = 5
	}
	if c.HTTP.RequestTimeoutSeconds == 0 {
		c.HTTP.RequestTimeoutSeconds = 10
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 20
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = 2
	}
	if c.Database.AcquireTimeoutSeconds == 0 {
		c.Database.AcquireTimeoutSeconds = 5
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "skybook-notifier"
	}
	if c.Booking.HoldTTLMinutes == 0 {
		c.Booking.HoldTTLMinutes = 10
	}
	if c.Booking.FlightsCacheTTL == 0 {
		c.Booking.FlightsCacheTTL = 30
	}
	if c.Booking.DefaultPriceCents == 0 {
		c.Booking.DefaultPriceCents = 150000
	}
	if c.Booking.BusinessMultiplierPercent == 0 {
		c.Booking.BusinessMultiplierPercent = 250
	}
	if c.Booking.DefaultBaggage == 0 {
		c.Booking.DefaultBaggage = 1
	}
	if c.Booking.MaxBaggage == 0 {
		c.Booking.MaxBaggage = 5
	}
	if c.Search.Timezone == "" {
		c.Search.Timezone = "UTC"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, errors.New("database.min_conns must not exceed max_conns"))
	}
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required"))
	}
	if c.Booking.DefaultBaggage > c.Booking.MaxBaggage {
		errs = append(errs, errors.New("booking.default_baggage must not exceed max_baggage"))
	}
	if _, err := time.LoadLocation(c.Search.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("search.timezone: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func escapeDSN(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
