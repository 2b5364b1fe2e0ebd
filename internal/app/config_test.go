package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulpark6/salesvision/internal/aging"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATA_SOURCE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, DataSourceMemory, cfg.DataSource)
	assert.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, aging.DefaultStatusPolicy, cfg.StatusPolicy())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigGracePolicy(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AGING_OVERDUE_GRACE_DAYS", "14")
	t.Setenv("AGING_DUE_WINDOW_DAYS", "14")
	t.Setenv("DATA_SOURCE", " Postgres ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, aging.GraceStatusPolicy, cfg.StatusPolicy())
	assert.Equal(t, DataSourcePostgres, cfg.DataSource)
}

func TestConfigValidate(t *testing.T) {
	base := Config{SessionSecret: "s", CSRFSecret: "c", DataSource: "memory", AgingDueWindowDays: 14}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"unknown source":     func(c *Config) { c.DataSource = "sqlite" },
		"postgres no dsn":    func(c *Config) { c.DataSource = "postgres"; c.PGDSN = "" },
		"negative grace":     func(c *Config) { c.AgingOverdueGraceDays = -1 },
		"window below grace": func(c *Config) { c.AgingOverdueGraceDays = 20 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
