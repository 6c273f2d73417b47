package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/serenity-glow/storefront/internal/handlers"
	"github.com/serenity-glow/storefront/internal/platform/config"
	"github.com/serenity-glow/storefront/internal/platform/localstore"
	"github.com/serenity-glow/storefront/internal/platform/observability"
	"github.com/serenity-glow/storefront/internal/platform/schedule"
	repos "github.com/serenity-glow/storefront/internal/repositories/localstore"
	"github.com/serenity-glow/storefront/internal/services"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, closeStore, err := openStore(cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("store close error", zap.Error(err))
		}
	}()

	cartRepo, err := repos.NewCartRepository(store)
	if err != nil {
		logger.Fatal("failed to initialise cart repository", zap.Error(err))
	}
	userRepo, err := repos.NewUserRepository(store)
	if err != nil {
		logger.Fatal("failed to initialise user repository", zap.Error(err))
	}
	sessionRepo, err := repos.NewSessionRepository(store)
	if err != nil {
		logger.Fatal("failed to initialise session repository", zap.Error(err))
	}

	scheduler := schedule.NewTimerScheduler()

	notifier, err := services.NewNotifier(services.NotifierDeps{
		Scheduler: scheduler,
		Duration:  cfg.Toast.Duration,
		Logger:    observability.EventLogger(logger.Named("toast")),
	})
	if err != nil {
		logger.Fatal("failed to initialise notifier", zap.Error(err))
	}

	cartService, err := services.NewCartService(services.CartServiceDeps{
		Repository: cartRepo,
		Notifier:   notifier,
		Logger:     observability.EventLogger(logger.Named("cart")),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart service", zap.Error(err))
	}

	accountService, err := services.NewAccountService(services.AccountServiceDeps{
		Users:    userRepo,
		Sessions: sessionRepo,
		Logger:   observability.EventLogger(logger.Named("account")),
	})
	if err != nil {
		logger.Fatal("failed to initialise account service", zap.Error(err))
	}

	checkoutService, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Cart:          cartRepo,
		Scheduler:     scheduler,
		Clock:         time.Now,
		RedirectDelay: cfg.Checkout.RedirectDelay,
		HomePath:      cfg.Checkout.HomePath,
		Logger:        observability.EventLogger(logger.Named("checkout")),
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout service", zap.Error(err))
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithReadinessCheck(func(ctx context.Context) error {
			_, err := store.Get(ctx, localstore.KeyCart)
			if errors.Is(err, localstore.ErrKeyNotFound) {
				return nil
			}
			return err
		}),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCartRoutes(handlers.NewCartHandlers(cartService, notifier).Routes),
		handlers.WithCheckoutRoutes(handlers.NewCheckoutHandlers(cartService, checkoutService).Routes),
		handlers.WithAccountRoutes(handlers.NewAccountHandlers(accountService).Routes),
		handlers.WithSessionRoutes(handlers.NewSessionHandlers(accountService).Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("storefront api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg config.StoreConfig, logger *zap.Logger) (localstore.Store, func() error, error) {
	if cfg.InMemory {
		logger.Info("using in-memory store")
		return localstore.NewMemoryStore(), func() error { return nil }, nil
	}

	sqlite, err := localstore.OpenSQLite(cfg.Path, logger.Named("localstore"))
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using sqlite store", zap.String("path", cfg.Path))
	return sqlite, sqlite.Close, nil
}
