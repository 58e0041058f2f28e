package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HISTORY_LIMIT", "30")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MIGRATE_ON_START", "false")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Contains(t, cfg.DBConnection, "_time_format=sqlite")
	assert.Equal(t, 30, cfg.HistoryLimit)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "questlog:activities", cfg.FeedChannel)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("API_BASE", "https://quest.example.com")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("LOAD_CONCURRENCY", "many")

	cfg := LoadClient()

	assert.Equal(t, "https://quest.example.com", cfg.APIBase)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 4, cfg.LoadConcurrency)
	assert.Equal(t, 5, cfg.ReminderLimit)
}

func TestEnvHelpers(t *testing.T) {
	tests := []struct {
		name string
		set  string
		want any
		get  func() any
	}{
		{"bool parsed", "true", true, func() any { return envBool("QL_TEST", false) }},
		{"bool invalid", "maybe", false, func() any { return envBool("QL_TEST", false) }},
		{"int invalid", "x", 7, func() any { return envInt("QL_TEST", 7) }},
		{"float parsed", "0.5", 0.5, func() any { return envFloat("QL_TEST", 1) }},
		{"duration invalid", "soon", time.Minute, func() any { return envDuration("QL_TEST", time.Minute) }},
		{"string default", "", "def", func() any { return envString("QL_TEST", "def") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("QL_TEST", tt.set)
			assert.Equal(t, tt.want, tt.get())
		})
	}
}
