// File: cmd/api-gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/auth/token"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/gateway"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/httpserver"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/logger"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

const serviceName = "api-gateway"

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

	writer := response.NewWriter(serviceName, cfg.Service.Version, appLogger)
	router := httpserver.NewRouter(serviceName, writer, appLogger)

	if cfg.Gateway.RateLimit.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		limiter := gateway.NewRateLimiter(redisClient,
			int64(cfg.Gateway.RateLimit.Limit), cfg.Gateway.RateLimit.Window, appLogger)
		router.Use(limiter.Middleware(writer))
	}

	tokens := token.NewManager(cfg.JWT)
	router.Use(gateway.AuthFilter(tokens, writer, appLogger))

	proxy, err := gateway.NewProxy(cfg.Gateway.Routes, writer, appLogger)
	if err != nil {
		appLogger.Fatal("failed to build proxy routes", zap.Error(err))
	}
	router.NoRoute(proxy.Handler())

	if err := httpserver.Run(ctx, cfg.Server, router, appLogger); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Fatal("service stopped", zap.Error(err))
	}
	appLogger.Info("service stopped")
}
