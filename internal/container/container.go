package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/dispatcher"
	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/event"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/travel-expense/internal/infrastructure/worker"
	apphttp "github.com/garyjia/travel-expense/internal/interfaces/http"
	"github.com/garyjia/travel-expense/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	conn         *database.DB
	db           *sqlite.DB
	repositories *RepositoryBundle

	// Infrastructure - Storage and auth
	storage   *StorageBundle
	renderers []port.DocumentRenderer
	auth      *AuthBundle

	// Application
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle

	// Workers and transport
	workers *worker.WorkerManager
	server  *apphttp.Server

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	User              port.UserRepository
	AllowanceSettings port.AllowanceSettingsRepository
	Trip              port.TripRepository
	Regulation        port.RegulationRepository
	Notification      port.NotificationRepository
	Expense           port.ExpenseRepository
	TripReport        port.TripReportRepository
	Summary           port.ApplicationSummaryRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Auth         service.AuthService
	Allowance    service.AllowanceService
	Trip         service.TripService
	Regulation   service.RegulationService
	Export       service.ExportService
	Notification service.NotificationService
	Expense      service.ExpenseService
	TripReport   service.TripReportService
	Dashboard    service.DashboardService
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

// Start initializes all components and starts the workers.
// Components are initialized in dependency order:
// 1. Database, migrations and repositories
// 2. Export storage, renderers and credentials
// 3. Event dispatcher and application services
// 4. Workers
// 5. HTTP server (not listening until Server().Start is called)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize database: %w", err))
	}
	c.logger.Info("Database initialized")

	if err := c.initInfrastructure(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize infrastructure: %w", err))
	}
	c.logger.Info("Storage and auth initialized", zap.Int("export_formats", len(c.renderers)))

	if err := c.initServices(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize services: %w", err))
	}
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize workers: %w", err))
	}
	c.logger.Info("Workers initialized and started")

	c.server = ProvideServer(&c.config.Server, c.services, c, c.logger)

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// abort releases whatever a failed Start opened
func (c *Container) abort(err error) error {
	c.teardown()
	return err
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	errs := c.teardown()

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

func (c *Container) teardown() []error {
	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
		c.workers = nil
	}

	if c.dispatcher != nil {
		if c.services != nil && c.services.Notification != nil {
			c.services.Notification.Unsubscribe(c.dispatcher)
		}
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
		c.dispatcher = nil
	}

	if c.storage != nil && c.storage.Archive != nil {
		if err := c.storage.Archive.Close(); err != nil {
			c.logger.Error("Failed to close export archive", zap.Error(err))
			errs = append(errs, fmt.Errorf("close export archive: %w", err))
		} else {
			c.logger.Info("Export archive closed")
		}
		c.storage.Archive = nil
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
		c.conn = nil
	}

	return errs
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *port.HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &port.HealthStatus{
		Overall:    true,
		Components: make(map[string]port.ComponentHealth),
	}
	set := func(name string, healthy bool, msg string) {
		status.Components[name] = port.ComponentHealth{Healthy: healthy, Message: msg}
		if !healthy {
			status.Overall = false
		}
	}

	switch {
	case c.conn == nil:
		set("database", false, "not initialized")
	default:
		if err := c.conn.PingContext(ctx); err != nil {
			set("database", false, fmt.Sprintf("ping failed: %v", err))
		} else {
			set("database", true, "")
		}
	}

	if c.workers != nil {
		set("workers", c.workers.IsRunning(), fmt.Sprintf("worker count: %d", c.workers.GetWorkerCount()))
	} else {
		set("workers", false, "not initialized")
	}

	if c.storage != nil && c.storage.Archive != nil {
		set("export_archive", true, "")
	} else {
		set("export_archive", false, "not initialized")
	}

	if c.dispatcher != nil {
		set("dispatcher", true, fmt.Sprintf("handlers: %d", handlerCount(c.dispatcher)))
	} else {
		set("dispatcher", false, "not initialized")
	}

	return status
}

func handlerCount(d dispatcher.Dispatcher) int {
	n := 0
	for _, typ := range event.Types() {
		n += len(d.ListHandlers(typ))
	}
	return n
}

func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.conn = dbBundle.Conn
	c.db = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.db, c.logger)
	if err != nil {
		return err
	}
	c.repositories = repos
	return nil
}

func (c *Container) initInfrastructure() error {
	storageBundle, err := ProvideStorage(&c.config.Export, c.logger)
	if err != nil {
		return err
	}
	c.storage = storageBundle
	c.renderers = ProvideRenderers(&c.config.Export, c.logger)

	authBundle, err := ProvideAuth(&c.config.Auth)
	if err != nil {
		return err
	}
	c.auth = authBundle
	return nil
}

func (c *Container) initServices() error {
	c.dispatcher = ProvideDispatcher(c.logger, c.config.Events.Async)

	services, err := ProvideServices(&ServiceDeps{
		Repos:      c.repositories,
		TxManager:  c.db,
		Dispatcher: c.dispatcher,
		Storage:    c.storage,
		Renderers:  c.renderers,
		Auth:       c.auth,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	return nil
}

func (c *Container) initWorkers() error {
	c.workers = ProvideWorkers(&c.config.Export, c.storage, c.logger)

	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	return nil
}

// DB returns the transaction manager.
func (c *Container) DB() port.TransactionManager {
	return c.db
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.WorkerManager {
	return c.workers
}

// Server returns the HTTP server.
func (c *Container) Server() *apphttp.Server {
	return c.server
}

// ExportFormats lists the export formats enabled by the configuration.
func (c *Container) ExportFormats() []string {
	formats := make([]string, 0, len(c.renderers))
	for _, r := range c.renderers {
		formats = append(formats, r.Format())
	}
	return formats
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}
