// File: internal/platform/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration for the given service. A config file is looked up
// as configs/config.<APP_ENV>.yaml unless CONFIG_PATH points elsewhere;
// environment variables (prefix APP, dots replaced with underscores) override
// file values. A local .env file is honored when present.
func Load(service string) (*Config, error) {
	_ = godotenv.Load()

	setDefaults(service)

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine, environment variables alone can carry the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(service string) {
	viper.SetDefault("service.name", service)
	viper.SetDefault("service.version", "1.0.0")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", service)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.migrations_dir", fmt.Sprintf("migrations/%s", service))

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.order_topic", "order-events")

	viper.SetDefault("jwt.issuer", "auth-service")
	viper.SetDefault("jwt.access_token_ttl", "1h")
	viper.SetDefault("jwt.refresh_token_ttl", "168h")

	viper.SetDefault("auth.sweep_interval", "1h")
	viper.SetDefault("auth.revoked_retention", "720h")

	viper.SetDefault("cart.ttl", "720h")
	viper.SetDefault("cart.sweep_interval", "1h")
	viper.SetDefault("cart.purge_after", "168h")

	viper.SetDefault("order.number_prefix", "ORD")
	viper.SetDefault("order.number_length", 8)

	viper.SetDefault("products.base_url", "http://localhost:8082")
	viper.SetDefault("products.timeout", "5s")

	viper.SetDefault("gateway.rate_limit.enabled", false)
	viper.SetDefault("gateway.rate_limit.limit", 30)
	viper.SetDefault("gateway.rate_limit.window", "1m")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}
