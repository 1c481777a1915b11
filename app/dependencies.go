package app

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/upb/codeintervu-admin/client"
	"github.com/upb/codeintervu-admin/config"
	"github.com/upb/codeintervu-admin/internal/observability"
	"github.com/upb/codeintervu-admin/middleware"
	"github.com/upb/codeintervu-admin/navigation"
	"github.com/upb/codeintervu-admin/session"
	"github.com/upb/codeintervu-admin/storage"
	"go.uber.org/zap"
)

// Dependencies holds everything the console needs.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	Clock  clockwork.Clock
	Store  storage.Store

	// Session core
	Credentials *session.Credentials
	Guard       *session.Guard
	Shell       *navigation.Shell
	Scheduler   *navigation.Scheduler
	Client      *client.Client

	SessionMiddleware *middleware.SessionMiddleware

	closers []func() error
}

// NewDependencies opens the configured credential storage and wires the
// session core on top of it.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStorage(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps.wire(clockwork.NewRealClock())

	logger.Info("all dependencies initialized successfully",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("backend", cfg.Backend.BaseURL))
	return deps, nil
}

// NewDependenciesWithStore wires the session core on an existing store and clock
func NewDependenciesWithStore(cfg *config.Config, logger *zap.Logger, store storage.Store, clock clockwork.Clock) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		Store:  store,
	}
	deps.wire(clock)
	return deps
}

// initStorage opens the credential store selected by STORAGE_DRIVER
func (d *Dependencies) initStorage(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Driver {
	case config.StorageMemory, "":
		d.Store = storage.NewMemoryStore()

	case config.StorageFile:
		store, err := storage.NewFileStore(cfg.Storage.FilePath)
		if err != nil {
			return err
		}
		d.Store = store
		d.Logger.Info("file storage ready", zap.String("path", store.Path()))

	case config.StorageRedis:
		rdb, err := storage.NewRedisClient(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return err
		}
		store := storage.NewRedisStore(rdb, cfg.Storage.Prefix)
		d.Store = store
		d.closers = append(d.closers, store.Close)
		d.Logger.Info("redis storage ready", zap.String("prefix", cfg.Storage.Prefix))

	case config.StoragePostgres:
		db, err := storage.OpenPostgres(ctx, cfg.Storage.Database, d.Logger)
		if err != nil {
			return err
		}
		store := storage.NewPostgresStore(db, d.Logger)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return err
		}
		d.Store = store
		d.closers = append(d.closers, store.Close)
		d.Logger.Info("postgres storage ready",
			zap.String("connection", cfg.Storage.Database.LogString()))

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

func (d *Dependencies) wire(clock clockwork.Clock) {
	cfg := d.Config
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	d.Clock = clock

	d.Credentials = session.NewCredentials(d.Store)
	d.Guard = session.NewGuard(d.Credentials, clock, observability.Named(d.Logger, "guard"))
	d.Shell = navigation.NewShell(cfg.Session.HomePath, clock, observability.Named(d.Logger, "shell"))
	d.Scheduler = navigation.NewScheduler(d.Shell, cfg.Session.LoginPath, cfg.Session.NavigationDelay,
		clock, observability.Named(d.Logger, "navigation"))
	d.Client = client.New(client.Config{
		BaseURL:  cfg.Backend.BaseURL,
		Timeout:  cfg.Backend.Timeout,
		HomePath: cfg.Session.HomePath,
	}, d.Credentials, d.Scheduler, d.Shell, observability.Named(d.Logger, "client"))
	d.SessionMiddleware = middleware.NewSessionMiddleware(d.Guard, cfg.Session.LoginPath, d.Logger)
}

// Ping checks the credential store when it supports it
func (d *Dependencies) Ping(ctx context.Context) error {
	if p, ok := d.Store.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.Scheduler != nil && d.Scheduler.Stop() {
		d.Logger.Info("cancelled pending login navigation")
	}

	var errs []error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}
	d.closers = nil

	_ = d.Logger.Sync()

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
