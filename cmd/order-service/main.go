// File: cmd/order-service/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/order"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/order/events"
	orderpg "github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/order/postgres"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/database"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/httpserver"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/logger"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/product/client"
)

const serviceName = "order-service"

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

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, appLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	repo := orderpg.NewOrderRepository(pool)
	products := client.New(cfg.Products)
	service := order.NewService(repo, products, publisher,
		cfg.Order.NumberPrefix, cfg.Order.NumberLength, appLogger)

	writer := response.NewWriter(serviceName, cfg.Service.Version, appLogger)
	router := httpserver.NewRouter(serviceName, writer, appLogger)
	order.NewHandler(service, writer, appLogger).RegisterRoutes(router)

	if err := httpserver.Run(ctx, cfg.Server, router, appLogger); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Fatal("service stopped", zap.Error(err))
	}
	appLogger.Info("service stopped")
}
