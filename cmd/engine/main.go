package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/diff"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/guard"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/remover"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/store"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	"github.com/Victor-armando18/pricing-scheme/internal/usecase"
	"github.com/Victor-armando18/pricing-scheme/pkg/config"
	"github.com/Victor-armando18/pricing-scheme/pkg/logger"
	"github.com/Victor-armando18/pricing-scheme/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "pricing-scheme"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	orders, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap order store", err)
		os.Exit(1)
	}
	defer closeStore()

	appGuard, closeGuard, err := openGuard(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap application guard", err)
		os.Exit(1)
	}
	defer closeGuard()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	conditions := infrastructure.NewJsonLogicExecutor()
	svc := usecase.NewSchemeService(usecase.Deps{
		Catalog:    infrastructure.NewFileCatalogSource(cfg.Catalog.Path, conditions),
		Conditions: conditions,
		Orders:     orders,
		Guard:      appGuard,
		Remover:    remover.New(orders),
		Patch:      infrastructure.ApplyOrderPatch,
		Differ:     &diff.Differ{},
		Logger:     logg,
		Metrics:    metrics.NewApplyMetrics(reg),
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	registerRoutes(e, svc, logg, reg)

	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"port":    cfg.App.Port,
			"store":   cfg.Store.Driver,
			"catalog": cfg.Catalog.Path,
		}), "server starting")
		if err := e.Start(":" + cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig) (interfaces.OrderRepository, func(), error) {
	if cfg.Driver == config.StoreDriverMemory {
		return store.NewMemoryStore(), func() {}, nil
	}

	db, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = sqlDB.Close() }

	gormStore := store.NewGormStore(db)
	if cfg.AutoMigrate {
		if err := gormStore.Migrate(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return gormStore, closeFn, nil
}

func openGuard(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (interfaces.ApplicationGuard, func(), error) {
	if !cfg.Enabled() {
		return guard.NewMemoryGuard(), func() {}, nil
	}

	client, err := guard.NewRedisClient(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}

	g, err := guard.NewRedisGuard(client, cfg.LockTTL, logg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return g, closeFn, nil
}
