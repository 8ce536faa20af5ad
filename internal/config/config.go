package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// EnvPrefix prefixes every environment override, e.g. FATURAS_SERVER_PORT
const EnvPrefix = "FATURAS"

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logger        LoggerConfig        `mapstructure:"logger"`
	View          ViewConfig          `mapstructure:"view"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Links         LinksConfig         `mapstructure:"links"`
	Billing       BillingConfig       `mapstructure:"billing"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// ViewConfig tunes the invoice list derivation. The page size is fixed.
type ViewConfig struct {
	Debounce    time.Duration `mapstructure:"debounce"`
	ClampPolicy string        `mapstructure:"clamp_policy"`
	MemoSize    int           `mapstructure:"memo_size"`
}

// CacheConfig holds collection cache configuration
type CacheConfig struct {
	RefetchTimeout  time.Duration `mapstructure:"refetch_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LinksConfig holds payment link configuration
type LinksConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// BillingConfig holds period generation configuration
type BillingConfig struct {
	DueDay int `mapstructure:"due_day"`
}

// AuthConfig lists the roles allowed to run bulk generation and exports
type AuthConfig struct {
	PrivilegedRoles []string `mapstructure:"privileged_roles"`
}

// NotificationsConfig holds the notification feed configuration
type NotificationsConfig struct {
	FeedSize int `mapstructure:"feed_size"`
}

// Load loads configuration from an optional YAML file, a .env file in the
// working directory and FATURAS_* environment variables, in increasing
// precedence.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/faturas.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 0)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("view.debounce", 300*time.Millisecond)
	v.SetDefault("view.clamp_policy", "clamp")
	v.SetDefault("view.memo_size", 64)

	v.SetDefault("cache.refetch_timeout", 30*time.Second)
	v.SetDefault("cache.refresh_interval", 5*time.Minute)

	v.SetDefault("links.base_url", "http://localhost:8080")
	v.SetDefault("billing.due_day", 10)
	v.SetDefault("auth.privileged_roles", []string{string(entity.RoleAdmin), string(entity.RoleFinance)})
	v.SetDefault("notifications.feed_size", 50)
}

// bindEnvVars binds the unprefixed variables common in deployments
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.path", EnvPrefix+"_DATABASE_PATH", "DATABASE_PATH")
	_ = v.BindEnv("links.base_url", EnvPrefix+"_LINKS_BASE_URL", "PAYMENT_LINK_BASE_URL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	switch c.View.ClampPolicy {
	case "clamp", "keep":
	default:
		return fmt.Errorf("view.clamp_policy must be clamp or keep, got %q", c.View.ClampPolicy)
	}
	if c.View.Debounce < 0 {
		return fmt.Errorf("view.debounce must not be negative")
	}
	if c.View.MemoSize < 1 {
		return fmt.Errorf("view.memo_size must be positive")
	}

	if c.Cache.RefetchTimeout <= 0 {
		return fmt.Errorf("cache.refetch_timeout must be positive")
	}
	if c.Cache.RefreshInterval <= 0 {
		return fmt.Errorf("cache.refresh_interval must be positive")
	}

	u, err := url.Parse(c.Links.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("links.base_url must be an absolute URL, got %q", c.Links.BaseURL)
	}

	if c.Billing.DueDay < 1 || c.Billing.DueDay > 28 {
		return fmt.Errorf("billing.due_day must be between 1 and 28, got %d", c.Billing.DueDay)
	}

	for _, r := range c.Auth.PrivilegedRoles {
		switch entity.Role(r) {
		case entity.RoleAdmin, entity.RoleFinance, entity.RoleInstructor, entity.RoleMember:
		default:
			return fmt.Errorf("auth.privileged_roles: unknown role %q", r)
		}
	}

	if c.Notifications.FeedSize < 1 {
		return fmt.Errorf("notifications.feed_size must be positive")
	}

	return nil
}

// Roles returns the privileged roles as entity roles
func (a AuthConfig) Roles() []entity.Role {
	roles := make([]entity.Role, 0, len(a.PrivilegedRoles))
	for _, r := range a.PrivilegedRoles {
		roles = append(roles, entity.Role(r))
	}
	return roles
}
