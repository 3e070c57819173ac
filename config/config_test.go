package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 300*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultTimezone, cfg.Calendar.Timezone)
	require.NotNil(t, cfg.Calendar.Location)
	assert.Equal(t, 92, cfg.Calendar.MaxRangeDays)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.NotEmpty(t, cfg.Database.DSN)
	assert.Equal(t, DefaultFeedSchedule, cfg.Feed.Schedule)
	assert.Equal(t, DefaultTimezone, cfg.Feed.Timezone)
	assert.Equal(t, 100, cfg.Feed.Request.PageSize)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
calendar:
  timezone: UTC
  max_range_days: 31
database:
  driver: postgres
  dsn: "host=localhost user=rental dbname=rental"
feed:
  enabled: true
  schedule: "*/5 * * * *"
  request:
    url: http://feed.local/bookings
    pageSize: 25
    payload:
      status: confirmed
seed:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.Calendar.Location)
	assert.Equal(t, 31, cfg.Calendar.MaxRangeDays)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost user=rental dbname=rental", cfg.Database.DSN)
	assert.True(t, cfg.Feed.Enabled)
	assert.Equal(t, "*/5 * * * *", cfg.Feed.Schedule)
	assert.Equal(t, "UTC", cfg.Feed.Timezone)
	assert.Equal(t, 25, cfg.Feed.Request.PageSize)
	assert.Equal(t, "confirmed", cfg.Feed.Request.Payload["status"])
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not a map"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "calendar:\n  timezone: Mars/Olympus_Mons\n"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
	require.NotNil(t, cfg.Calendar.Location)

	// Manila has no DST, so the offset is fixed at +08:00 whichever
	// location source resolved it.
	_, offset := time.Date(2026, time.March, 10, 12, 0, 0, 0, cfg.Calendar.Location).Zone()
	assert.Equal(t, 8*60*60, offset)
}
