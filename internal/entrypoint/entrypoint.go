package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/wooauto/internal/config"
	"github.com/mrlokans/wooauto/internal/crypto"
	"github.com/mrlokans/wooauto/internal/database"
	http_controllers "github.com/mrlokans/wooauto/internal/http"
	"github.com/mrlokans/wooauto/internal/locale"
	"github.com/mrlokans/wooauto/internal/logging"
	"github.com/mrlokans/wooauto/internal/preferences"
	"github.com/mrlokans/wooauto/internal/scheduler"
	"github.com/mrlokans/wooauto/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until ctx is cancelled, then calls onShutdown and
// drains the server within the configured shutdown timeout.
func Serve(ctx context.Context, router http.Handler, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server", zap.Duration("timeout", timeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// Background work stops before the listener so in-flight requests can still
		// read preferences.
		if onShutdown != nil {
			onShutdown(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	log.Info("server exiting")
	return err
}

// openPreferences builds the preference store over db and imports the legacy file
// on first start. Migrate logs its own outcome.
func openPreferences(db *database.Database, cfg *config.Config, log *zap.Logger) (*preferences.Store, error) {
	storeOpts := []preferences.Option{preferences.WithLogger(log)}
	if cfg.Preferences.SecretKey != "" {
		box, err := crypto.NewSecretBoxFromPassphrase(cfg.Preferences.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("invalid PREFERENCES_SECRET_KEY: %w", err)
		}
		storeOpts = append(storeOpts, preferences.WithSealer(box))
	} else {
		log.Warn("PREFERENCES_SECRET_KEY is not set, the API secret is stored in plaintext")
	}
	store := preferences.New(db.Settings(), storeOpts...)

	if _, err := store.Migrate(cfg.Preferences.LegacyPath); err != nil {
		return nil, fmt.Errorf("failed to migrate preferences: %w", err)
	}
	return store, nil
}

// Run wires every component from cfg and serves until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	log, err := logging.New(logging.Options{
		Level:     cfg.Log.Level,
		BuildType: string(cfg.Global.BuildType),
		Format:    cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting wooauto", zap.String("version", version), zap.String("build_type", string(cfg.Global.BuildType)))
	if cfg.Global.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database.Path,
		database.WithLogger(log),
		database.WithLogLevel(logging.GormLogLevel(log.Level())))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	store, err := openPreferences(db, cfg, log)
	if err != nil {
		return err
	}

	languages := locale.NewManager(store, os.Getenv)
	if current, err := languages.Current(); err == nil {
		log.Info("interface language", zap.String("language", current))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Task queue and poller
	var taskClient *tasks.Client
	var pollScheduler *scheduler.OrderPollScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("error closing task client", zap.Error(err))
			}
		}()

		poller := tasks.NewOrderPoller(store, tasks.WooCommerceListerFactory(cfg.WooCommerce.Timeout), nil, log)
		taskClient.Register(tasks.NewPollOrdersQueue(poller))
		taskClient.Start(ctx)

		if cfg.Poller.Enabled {
			pollScheduler = scheduler.NewOrderPollScheduler(store, taskClient, log)
			if err := pollScheduler.Start(ctx); err != nil {
				log.Error("failed to start order poll scheduler", zap.Error(err))
			}
		}
	} else if cfg.Poller.Enabled {
		log.Warn("order poller needs the task queue, set TASKS_ENABLED=true to enable it")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:    db,
		Preferences: store,
		Languages:   languages,
		Version:     version,
		Logger:      log,
	}
	// Typed nils would make the API report these as enabled.
	if pollScheduler != nil {
		routerCfg.Scheduler = pollScheduler
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if pollScheduler != nil {
			pollScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	}

	return Serve(ctx, router, cfg, log, onShutdown)
}
