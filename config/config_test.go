package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
http:
  address: ":9090"
database:
  host: db.internal
  port: 5433
  user: skybook
  password: secret
  name: skybook
redis:
  addr: redis:6379
kafka:
  brokers: ["kafka:9092"]
  booking_events_topic: booking-events
  notifications_topic: booking-notifications
booking:
  default_price_cents: 99900
search:
  demo_fallback: true
  timezone: Europe/Istanbul
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_YAMLWithDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, int64(99900), cfg.Booking.DefaultPriceCents)
	assert.True(t, cfg.Search.DemoFallback)

	// defaults
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 1, cfg.Booking.DefaultBaggage)
	assert.Equal(t, 10, cfg.Booking.HoldTTLMinutes)
	assert.Equal(t, "skybook_session", cfg.HTTP.SessionCookie)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout())
}

func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	t.Setenv("DB_HOST", "pg.prod")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("BOOKING_DEFAULT_BAGGAGE", "2")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "pg.prod", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, int32(50), cfg.Database.MaxConns)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2, cfg.Booking.DefaultBaggage)
	// untouched by env
	assert.Equal(t, "skybook", cfg.Database.User)
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "skybook")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "database:\n  host: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.user is required")
	assert.Contains(t, err.Error(), "redis.addr is required")

	_, err = LoadConfig(writeConfig(t, "http: [broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p w'x", Name: "n", SSLMode: "disable"}
	assert.Equal(t, `host=h port=5432 user=u password='p w\'x' dbname=n sslmode=disable`, d.DSN())
	assert.Equal(t, "postgres://u@h:5432/n", d.Redacted())
	assert.NotContains(t, d.Redacted(), "p w")
}
