package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/faturas.db", cfg.Database.Path)
	assert.Equal(t, 300*time.Millisecond, cfg.View.Debounce)
	assert.Equal(t, "clamp", cfg.View.ClampPolicy)
	assert.Equal(t, 10, cfg.Billing.DueDay)
	assert.Equal(t, 50, cfg.Notifications.FeedSize)
	assert.Equal(t, []entity.Role{entity.RoleAdmin, entity.RoleFinance}, cfg.Auth.Roles())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
server:
  port: 9090
view:
  debounce: 150ms
  clamp_policy: keep
billing:
  due_day: 5
auth:
  privileged_roles: [admin]
`)
	t.Setenv("FATURAS_SERVER_PORT", "9191")
	t.Setenv("PAYMENT_LINK_BASE_URL", "https://pay.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 150*time.Millisecond, cfg.View.Debounce)
	assert.Equal(t, "keep", cfg.View.ClampPolicy)
	assert.Equal(t, 5, cfg.Billing.DueDay)
	assert.Equal(t, "https://pay.example.com", cfg.Links.BaseURL)
	assert.Equal(t, []entity.Role{entity.RoleAdmin}, cfg.Auth.Roles())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FATURAS_DATABASE_PATH=/tmp/from-dotenv.db\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("FATURAS_DATABASE_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.Database.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:        ServerConfig{Port: 8080},
			Database:      DatabaseConfig{Path: "faturas.db"},
			Logger:        LoggerConfig{Format: "json"},
			View:          ViewConfig{ClampPolicy: "clamp", MemoSize: 8},
			Cache:         CacheConfig{RefetchTimeout: time.Second, RefreshInterval: time.Minute},
			Links:         LinksConfig{BaseURL: "https://pay.example.com"},
			Billing:       BillingConfig{DueDay: 10},
			Auth:          AuthConfig{PrivilegedRoles: []string{"admin"}},
			Notifications: NotificationsConfig{FeedSize: 10},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"log format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"clamp policy", func(c *Config) { c.View.ClampPolicy = "wrap" }, "view.clamp_policy"},
		{"memo size", func(c *Config) { c.View.MemoSize = 0 }, "view.memo_size"},
		{"refetch timeout", func(c *Config) { c.Cache.RefetchTimeout = 0 }, "cache.refetch_timeout"},
		{"link base", func(c *Config) { c.Links.BaseURL = "pay/links" }, "links.base_url"},
		{"due day", func(c *Config) { c.Billing.DueDay = 31 }, "billing.due_day"},
		{"role", func(c *Config) { c.Auth.PrivilegedRoles = []string{"root"} }, "auth.privileged_roles"},
		{"feed size", func(c *Config) { c.Notifications.FeedSize = 0 }, "notifications.feed_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}
