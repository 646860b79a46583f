package container

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/dispatcher"
	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
	"github.com/garyjia/travel-expense/internal/infrastructure/auth"
	"github.com/garyjia/travel-expense/internal/infrastructure/export"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/repository"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/travel-expense/internal/infrastructure/storage"
	"github.com/garyjia/travel-expense/internal/infrastructure/worker"
	apphttp "github.com/garyjia/travel-expense/internal/interfaces/http"
	"github.com/garyjia/travel-expense/migrations"
	"github.com/garyjia/travel-expense/pkg/database"
	"github.com/garyjia/travel-expense/pkg/utils"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	Conn           *database.DB
	TransactionMgr *sqlite.DB
}

// StorageBundle holds export storage components.
type StorageBundle struct {
	FileStorage port.FileStorage
	Archive     *storage.BoltExportArchive
}

// AuthBundle holds credential components.
type AuthBundle struct {
	Hasher port.PasswordHasher
	Tokens port.TokenIssuer
}

// ProvideDatabase opens the database and applies pending migrations. The embedded
// migrations are used unless cfg.MigrationsDir is set.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	conn, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	var source fs.FS = migrations.FS
	if cfg.MigrationsDir != "" {
		source = os.DirFS(cfg.MigrationsDir)
	}

	if err := database.NewMigrator(conn, logger).RunMigrations(source); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		Conn:           conn,
		TransactionMgr: sqlite.NewDB(conn.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories on db.
func ProvideRepositories(db *sqlite.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		User:              repository.NewUserRepository(db, logger),
		AllowanceSettings: repository.NewAllowanceSettingsRepository(db, logger),
		Trip:              repository.NewTripRepository(db, logger),
		Regulation:        repository.NewRegulationRepository(db, logger),
		Notification:      repository.NewNotificationRepository(db, logger),
		Expense:           repository.NewExpenseRepository(db, logger),
		TripReport:        repository.NewTripReportRepository(db, logger),
		Summary:           repository.NewApplicationSummaryRepository(db, logger),
	}, nil
}

// ProvideStorage creates the export file store and opens the export archive.
func ProvideStorage(cfg *ExportConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("export config is required")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	archive, err := storage.OpenExportArchive(cfg.ArchivePath, logger)
	if err != nil {
		return nil, err
	}

	return &StorageBundle{
		FileStorage: storage.NewLocalFileStorage(cfg.OutputDir, logger),
		Archive:     archive,
	}, nil
}

// ProvideRenderers returns the export formats available with cfg. PDF needs a font
// with Japanese glyphs and is left out without one.
func ProvideRenderers(cfg *ExportConfig, logger *zap.Logger) []port.DocumentRenderer {
	renderers := []port.DocumentRenderer{
		export.TextRenderer{},
		export.ShiftJISRenderer{},
		export.XLSXRenderer{},
	}

	if cfg.FontPath == "" {
		logger.Warn("export.font_path not set, pdf export disabled")
		return renderers
	}
	if _, err := os.Stat(cfg.FontPath); err != nil {
		logger.Warn("Export font not readable, pdf export disabled",
			zap.String("font_path", cfg.FontPath),
			zap.Error(err))
		return renderers
	}

	return append(renderers, export.NewPDFRenderer(cfg.FontPath))
}

// ProvideAuth creates the password hasher and token issuer.
func ProvideAuth(cfg *AuthConfig) (*AuthBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("auth config is required")
	}

	tokens, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	return &AuthBundle{
		Hasher: auth.NewBcryptHasher(cfg.BcryptCost),
		Tokens: tokens,
	}, nil
}

// ProvideDispatcher creates the in-process event dispatcher. With async set, Dispatch
// returns before the handlers run.
func ProvideDispatcher(logger *zap.Logger, async bool) dispatcher.Dispatcher {
	d := dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKV(logger)))
	if async {
		return dispatcher.Async(d)
	}
	return d
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Dispatcher dispatcher.Dispatcher
	Storage    *StorageBundle
	Renderers  []port.DocumentRenderer
	Auth       *AuthBundle
	Logger     *zap.Logger
}

// ProvideServices creates all application services and subscribes the notification
// handlers to application events.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil || deps.TxManager == nil || deps.Dispatcher == nil {
		return nil, fmt.Errorf("repositories, transaction manager and dispatcher are required")
	}
	if deps.Storage == nil || deps.Auth == nil {
		return nil, fmt.Errorf("storage and auth are required")
	}

	logger := utils.NewKV(deps.Logger)

	allowances := service.NewAllowanceService(deps.Repos.AllowanceSettings, logger)
	regulations := service.NewRegulationService(deps.Repos.Regulation, deps.TxManager, logger)
	notifications := service.NewNotificationService(deps.Repos.Notification, logger)
	notifications.Subscribe(deps.Dispatcher)
	lifecycle := workflow.NewTripLifecycle(time.Now)

	return &ServiceBundle{
		Auth:      service.NewAuthService(deps.Repos.User, deps.Auth.Hasher, deps.Auth.Tokens, logger),
		Allowance: allowances,
		Trip: service.NewTripService(
			deps.Repos.Trip,
			allowances,
			lifecycle,
			deps.Dispatcher,
			deps.TxManager,
			logger,
		),
		Regulation:   regulations,
		Export:       service.NewExportService(regulations, deps.Storage.FileStorage, deps.Storage.Archive, deps.Renderers, logger),
		Notification: notifications,
		Expense:      service.NewExpenseService(deps.Repos.Expense, lifecycle, deps.Dispatcher, deps.TxManager, logger),
		TripReport:   service.NewTripReportService(deps.Repos.TripReport, deps.Repos.Trip, deps.Dispatcher, logger),
		Dashboard:    service.NewDashboardService(deps.Repos.Summary),
	}, nil
}

// ProvideWorkers registers the background workers.
func ProvideWorkers(cfg *ExportConfig, storageBundle *StorageBundle, logger *zap.Logger) *worker.WorkerManager {
	manager := worker.NewWorkerManager(logger)
	manager.Register(worker.NewExportRetentionWorker(worker.RetentionConfig{
		Retention:     cfg.Retention,
		SweepInterval: cfg.SweepInterval,
	}, storageBundle.Archive, storageBundle.FileStorage, logger))
	return manager
}

// ProvideServer creates the HTTP server over the services.
func ProvideServer(cfg *ServerConfig, services *ServiceBundle, health apphttp.HealthChecker, logger *zap.Logger) *apphttp.Server {
	return apphttp.NewServer(apphttp.ServerConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Mode:            cfg.Mode,
		AllowedOrigins:  cfg.AllowedOrigins,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, apphttp.Services{
		Auth:         services.Auth,
		Allowance:    services.Allowance,
		Trip:         services.Trip,
		Regulation:   services.Regulation,
		Export:       services.Export,
		Notification: services.Notification,
		Expense:      services.Expense,
		TripReport:   services.TripReport,
		Dashboard:    services.Dashboard,
	}, health, utils.NewKV(logger))
}
