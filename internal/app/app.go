package app

import (
	"context"
	"errors"
	"fmt"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/core/config"
	"shipdesk/internal/core/database"
	"shipdesk/internal/core/easypost"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/proxy"
	labeladapters "shipdesk/internal/features/labels/adapters"
	labelhandler "shipdesk/internal/features/labels/handler"
	labelports "shipdesk/internal/features/labels/ports"
	labelservice "shipdesk/internal/features/labels/service"
	scanformadapters "shipdesk/internal/features/scanforms/adapters"
	scanformhandler "shipdesk/internal/features/scanforms/handler"
	scanformservice "shipdesk/internal/features/scanforms/service"
	shipmentadapters "shipdesk/internal/features/shipments/adapters"
	shipments "shipdesk/internal/features/shipments/domain"
	shipmenthandler "shipdesk/internal/features/shipments/handler"
	shipmentservice "shipdesk/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	DB    *database.DB
	Cache cache.Cache

	Reconciler *shipmentservice.ReconcileService
	Shipments  *shipmentservice.ShipmentService
	Labels     *labelservice.LabelService
	ScanForms  *scanformservice.ScanFormService
}

// New opens the store and cache and wires every feature. Redis is optional;
// without it rate quotes are not cached and passes are not locked.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	l := logger.Get()

	client, err := easypost.NewClient(cfg.EasyPost, proxy.FromConfig(cfg.Proxy))
	if err != nil {
		return nil, fmt.Errorf("easypost: %w", err)
	}
	info := cfg.EasyPost.Info()
	l.Info("EasyPost configured",
		zap.String("environment", info.CurrentEnvironment),
		zap.Bool("production_configured", info.ProductionConfigured),
		zap.Bool("test_configured", info.TestConfigured),
	)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	l.Info("Database ready", zap.String("driver", db.Dialect().Driver()))

	a := &App{DB: db}

	var (
		lock      *shipmentadapters.RedisPassLock
		rateCache labelports.RateCache
	)
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		if err := redisCache.Ping(ctx); err != nil {
			l.Warn("Redis unreachable, continuing without cache and pass lock", zap.Error(err))
			redisCache.Close()
		} else {
			a.Cache = redisCache
			lock = shipmentadapters.NewRedisPassLock(redisCache, cfg.Redis.SyncLockTTL())
			rateCache = labeladapters.NewRedisRateCache(redisCache, cfg.Redis.RateCacheTTL(), client.Mode())
			l.Info("Redis connected")
		}
	}

	shipmentRepo := shipmentadapters.NewSQLShipmentRepository(db)
	tx := database.NewTxManager(db)

	reconcileOpts := []shipmentservice.Option{shipmentservice.WithPageSize(cfg.Sync.PageSize)}
	scanFormOpts := []scanformservice.Option{scanformservice.WithPageSize(cfg.Sync.PageSize)}
	if lock != nil {
		reconcileOpts = append(reconcileOpts, shipmentservice.WithPassLock(lock))
		scanFormOpts = append(scanFormOpts, scanformservice.WithPassLock(lock))
	}

	a.Reconciler = shipmentservice.NewReconcileService(
		shipmentRepo,
		shipmentadapters.NewEasyPostShipmentSource(client),
		tx,
		reconcileOpts...,
	)
	a.Shipments = shipmentservice.NewShipmentService(shipmentRepo)
	a.Labels = labelservice.NewLabelService(
		labeladapters.NewEasyPostLabelProvider(client),
		shipmentRepo,
		rateCache,
		shipperAddress(cfg.Shipper),
	)
	a.ScanForms = scanformservice.NewScanFormService(
		scanformadapters.NewSQLScanFormRepository(db),
		shipmentRepo,
		scanformadapters.NewEasyPostScanFormProvider(client),
		tx,
		scanFormOpts...,
	)

	return a, nil
}

// Register mounts every feature's routes under /api.
func (a *App) Register(r fiber.Router) {
	api := r.Group("/api")
	shipmenthandler.NewShipmentHandler(a.Shipments, a.Reconciler).Register(api.Group("/shipments"))
	labelhandler.NewLabelHandler(a.Labels).Register(api.Group("/labels"))
	scanformhandler.NewScanFormHandler(a.ScanForms).Register(api.Group("/scanforms"))
}

// Close releases the cache and the database.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	errs = append(errs, a.DB.Close())
	return errors.Join(errs...)
}

func shipperAddress(c config.ShipperConfig) shipments.Address {
	return shipments.Address{
		Name:    c.Name,
		Street1: c.Street1,
		Street2: c.Street2,
		City:    c.City,
		State:   c.State,
		Zip:     c.Zip,
		Country: c.Country,
		Phone:   c.Phone,
	}
}
