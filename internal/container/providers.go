package container

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/dispatcher"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/orchestrator"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/billing"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/cache"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/persistence/repository"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/persistence/sqlite"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/worker"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/notification"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/pkg/database"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/pkg/utils"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.DB
}

// NotificationBundle holds the feed and the fan-out notifier writing to it.
type NotificationBundle struct {
	Feed     *notification.Feed
	Notifier port.Notifier
}

// ProvideDatabase opens the database and applies the embedded migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if _, err := migrator.RunMigrations(database.Schema, database.SchemaDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Members:  repository.NewMemberRepository(sqlDB, logger),
		Invoices: repository.NewInvoiceRepository(sqlDB, logger),
		Links:    repository.NewPaymentLinkRepository(sqlDB, logger),
	}, nil
}

// ProvideGateway creates the billing gateway over the repositories.
func ProvideGateway(repos *RepositoryBundle, tx port.TransactionManager, cfg *BillingConfig, logger *zap.Logger) *billing.Gateway {
	return billing.NewGateway(repos.Members, repos.Invoices, repos.Links, tx, billing.Config{
		LinkBaseURL: cfg.LinkBaseURL,
		DueDay:      cfg.DueDay,
	}, logger.Named("billing"))
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewSugaredAdapter(logger.Named("dispatcher"))))
}

// ProvideNotifications creates the feed and a notifier that logs and records.
func ProvideNotifications(feedSize int, logger *zap.Logger) *NotificationBundle {
	feed := notification.NewFeed(feedSize)
	return &NotificationBundle{
		Feed: feed,
		Notifier: notification.Multi{
			notification.NewLogNotifier(logger.Named("notifications")),
			feed,
		},
	}
}

// ProvideCache creates the collection store and registers every loader.
func ProvideCache(cfg *CacheConfig, gateway port.BillingGateway, feed cache.NotificationSource, events dispatcher.Publisher, logger *zap.Logger) *cache.Store {
	store := cache.NewStore(cache.Config{RefetchTimeout: cfg.RefetchTimeout}, events, logger.Named("cache"))
	cache.RegisterBillingCollections(store, gateway, feed)
	return store
}

// ProvideOrchestrator creates the mutation orchestrator.
func ProvideOrchestrator(gateway port.BillingGateway, store port.CacheStore, notifier port.Notifier, events dispatcher.Publisher, logger *zap.Logger) orchestrator.Orchestrator {
	return orchestrator.NewOrchestrator(gateway, store, notifier,
		orchestrator.WithPublisher(events),
		orchestrator.WithLogger(utils.NewSugaredAdapter(logger.Named("orchestrator"))),
	)
}

// ProvideSessions creates the session registry. Each session loads the
// cached invoices and follows their refreshes.
func ProvideSessions(cfg *ViewConfig, store *cache.Store, events dispatcher.Dispatcher, logger *zap.Logger) *view.Registry {
	sessionLogger := utils.NewSugaredAdapter(logger.Named("view"))
	load := func(ctx context.Context) ([]entity.Invoice, error) {
		return cache.Invoices(ctx, store)
	}

	return view.NewRegistry(func(ctx context.Context) (*view.Session, error) {
		s, err := view.NewSession(view.SessionConfig{
			Debounce:    cfg.Debounce,
			ClampPolicy: cfg.ClampPolicy,
			MemoSize:    cfg.MemoSize,
			Logger:      sessionLogger,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Attach(ctx, events, load); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	})
}

// ProvideWorkers creates the worker manager with every background worker.
func ProvideWorkers(cfg *WorkerConfig, gateway worker.OverdueMarker, store port.CacheStore, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger.Named("workers"))
	manager.Register(worker.NewRefreshWorker(gateway, store, cfg.RefreshInterval, logger.Named("refresh")))
	return manager
}
