// Package container provides dependency injection and lifecycle management
// for the billing console.
package container

import (
	"fmt"
	"time"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/config"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	View     ViewConfig
	Cache    CacheConfig
	Billing  BillingConfig
	Worker   WorkerConfig

	// FeedSize is how many notifications the feed keeps
	FeedSize int

	// PrivilegedRoles may run bulk generation and exports
	PrivilegedRoles []entity.Role

	// SkipWorkers leaves background workers stopped, as one-shot CLI commands do
	SkipWorkers bool
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ViewConfig holds per-session derivation settings.
type ViewConfig struct {
	Debounce    time.Duration
	ClampPolicy view.ClampPolicy
	MemoSize    int
}

// CacheConfig holds collection cache settings.
type CacheConfig struct {
	RefetchTimeout time.Duration
}

// BillingConfig holds gateway settings.
type BillingConfig struct {
	LinkBaseURL string
	DueDay      int
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	// RefreshInterval is how often overdue invoices are flagged
	RefreshInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "data/faturas.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		View: ViewConfig{
			Debounce:    view.DefaultDebounce,
			ClampPolicy: view.ClampOnChange,
			MemoSize:    view.DefaultMemoSize,
		},
		Cache: CacheConfig{
			RefetchTimeout: 30 * time.Second,
		},
		Billing: BillingConfig{
			LinkBaseURL: "http://localhost:8080",
			DueDay:      10,
		},
		Worker: WorkerConfig{
			RefreshInterval: 5 * time.Minute,
		},
		FeedSize:        50,
		PrivilegedRoles: []entity.Role{entity.RoleAdmin, entity.RoleFinance},
	}
}

// FromAppConfig converts the file-based application config loaded by viper
// into the container's configuration structure.
func FromAppConfig(c *config.Config) *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		View: ViewConfig{
			Debounce:    c.View.Debounce,
			ClampPolicy: view.ParseClampPolicy(c.View.ClampPolicy),
			MemoSize:    c.View.MemoSize,
		},
		Cache: CacheConfig{
			RefetchTimeout: c.Cache.RefetchTimeout,
		},
		Billing: BillingConfig{
			LinkBaseURL: c.Links.BaseURL,
			DueDay:      c.Billing.DueDay,
		},
		Worker: WorkerConfig{
			RefreshInterval: c.Cache.RefreshInterval,
		},
		FeedSize:        c.Notifications.FeedSize,
		PrivilegedRoles: c.Auth.Roles(),
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Billing.LinkBaseURL == "" {
		return fmt.Errorf("billing.link_base_url is required")
	}
	if c.FeedSize < 1 {
		return fmt.Errorf("feed size must be positive")
	}
	return nil
}
