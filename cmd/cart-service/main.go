// File: cmd/cart-service/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/cart"
	cartpg "github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/cart/postgres"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/database"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/httpserver"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/logger"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/sweeper"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/product/client"
)

const serviceName = "cart-service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()
	appLogger := logger.WithService(zapLogger, serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database); err != nil {
			appLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	repo := cartpg.NewCartRepository(pool)
	products := client.New(cfg.Products)
	service := cart.NewService(repo, products, cfg.Cart.TTL, appLogger)

	writer := response.NewWriter(serviceName, cfg.Service.Version, appLogger)
	router := httpserver.NewRouter(serviceName, writer, appLogger)
	cart.NewHandler(service, writer, appLogger).RegisterRoutes(router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return httpserver.Run(groupCtx, cfg.Server, router, appLogger)
	})
	group.Go(func() error {
		return sweeper.Run(groupCtx, "cart-sweep", cfg.Cart.SweepInterval, appLogger,
			service.Sweep(cfg.Cart.PurgeAfter))
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Fatal("service stopped", zap.Error(err))
	}
	appLogger.Info("service stopped")
}
