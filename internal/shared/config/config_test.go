package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, ":8080", cfg.GetServerAddress())

	assert.Equal(t, 10*time.Minute, cfg.Reservation.HoldTTL)
	assert.Equal(t, 10, cfg.Reservation.MaxSeatsPerHold)
	assert.Equal(t, 30*time.Second, cfg.Reservation.SweepInterval)

	assert.Equal(t, 30*time.Second, cfg.Redis.SeatMapTTL)
	assert.False(t, cfg.Kafka.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RESERVATION_HOLD_TTL", "5m")
	t.Setenv("RESERVATION_MAX_SEATS", "6")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.Equal(t, 5*time.Minute, cfg.Reservation.HoldTTL)
	assert.Equal(t, 6, cfg.Reservation.MaxSeatsPerHold)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "cinetix_test")

	cfg := Load()

	assert.Contains(t, cfg.Database.DSN, "host=db.internal")
	assert.Contains(t, cfg.Database.DSN, "port=5433")
	assert.Contains(t, cfg.Database.DSN, "dbname=cinetix_test")
}

func TestGinModeHelpers(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	t.Setenv("GIN_MODE", "debug")
	cfg = Load()
	assert.True(t, cfg.IsDevelopment())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RESERVATION_MAX_SEATS", "not-a-number")
	t.Setenv("RESERVATION_HOLD_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.Reservation.MaxSeatsPerHold)
	assert.Equal(t, 10*time.Minute, cfg.Reservation.HoldTTL)
}
