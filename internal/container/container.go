package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/dispatcher"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/orchestrator"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/billing"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/cache"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/persistence/sqlite"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/worker"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/notification"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	db           *database.DB
	tx           *sqlite.DB
	repositories *RepositoryBundle
	gateway      *billing.Gateway

	// Application
	dispatcher    dispatcher.Dispatcher
	cache         *cache.Store
	notifications *NotificationBundle
	orchestrator  orchestrator.Orchestrator
	sessions      *view.Registry

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.RWMutex
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Members  port.MemberRepository
	Invoices port.InvoiceRepository
	Links    port.PaymentLinkRepository
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins processing.
// Components are initialized in dependency order:
// 1. Database, migrations and repositories
// 2. Billing gateway
// 3. Event dispatcher, notifications and collection cache
// 4. Orchestrator and view sessions
// 5. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	var runCtx context.Context
	runCtx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and repositories
	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	// Step 2: Billing gateway over the local store
	c.gateway = ProvideGateway(c.repositories, c.tx, &c.config.Billing, c.logger)

	// Step 3: Dispatcher, notifications and cache
	c.dispatcher = ProvideDispatcher(c.logger)
	c.notifications = ProvideNotifications(c.config.FeedSize, c.logger)
	c.cache = ProvideCache(&c.config.Cache, c.gateway, c.notifications.Feed, c.dispatcher, c.logger)
	c.logger.Info("Dispatcher and cache initialized")

	// Step 4: Orchestrator and sessions
	c.orchestrator = ProvideOrchestrator(c.gateway, c.cache, c.notifications.Notifier, c.dispatcher, c.logger)
	c.sessions = ProvideSessions(&c.config.View, c.cache, c.dispatcher, c.logger)
	c.logger.Info("Application services initialized")

	// Step 5: Initialize and start workers
	c.workers = ProvideWorkers(&c.config.Worker, c.gateway, c.cache, c.logger)
	if !c.config.SkipWorkers {
		if err := c.workers.StartAll(runCtx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		c.logger.Info("Workers initialized and started")
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	// Step 1: Stop workers (reverse of step 5)
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	// Step 2: Close sessions (reverse of step 4)
	if c.sessions != nil {
		c.sessions.CloseAll()
	}

	// Step 3: Cache refetches publish through the dispatcher, so the cache goes first
	if c.cache != nil {
		c.cache.Close()
	}
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	// Step 4: Close database (reverse of step 1)
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check database
	if c.db != nil {
		if err := c.db.Ping(); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// Check workers
	switch {
	case c.workers == nil:
		status.Components["workers"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	case c.config.SkipWorkers:
		status.Components["workers"] = ComponentHealth{Healthy: true, Message: "disabled"}
	default:
		status.Components["workers"] = ComponentHealth{
			Healthy: c.workers.IsRunning(),
			Message: fmt.Sprintf("worker count: %d", c.workers.WorkerCount()),
		}
		if !c.workers.IsRunning() {
			status.Overall = false
		}
	}

	// Check cache
	if c.cache != nil {
		status.Components["cache"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("cached collections: %d", len(c.cache.Keys())),
		}
	} else {
		status.Components["cache"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	return status
}

// initDatabase initializes the database and all repositories using providers.
func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.db = dbBundle.DB
	c.tx = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.db.DB, c.logger)
	if err != nil {
		_ = c.db.Close()
		return err
	}

	c.repositories = repos
	return nil
}

// Getters for accessing container components

// DB returns the database.
func (c *Container) DB() *database.DB {
	return c.db
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Gateway returns the billing gateway.
func (c *Container) Gateway() *billing.Gateway {
	return c.gateway
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Cache returns the collection store.
func (c *Container) Cache() *cache.Store {
	return c.cache
}

// Feed returns the notification feed.
func (c *Container) Feed() *notification.Feed {
	return c.notifications.Feed
}

// Orchestrator returns the mutation orchestrator.
func (c *Container) Orchestrator() orchestrator.Orchestrator {
	return c.orchestrator
}

// Sessions returns the view session registry.
func (c *Container) Sessions() *view.Registry {
	return c.sessions
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}
