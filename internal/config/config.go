package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backends for the cart id store.
const (
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string

	ShopifyStoreDomain    string
	StorefrontAccessToken string
	ShopifyAPIVersion     string
	StorefrontTimeout     time.Duration
	StorefrontMinInterval time.Duration

	CartStore     string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDBName   string
	CatalogCache  bool

	// Mongo pool sizing; zero keeps the driver defaults.
	MongoConnectTimeout time.Duration
	MongoMaxPoolSize    uint64
	MongoMinPoolSize    uint64

	// EventsDSN enables the cart event journal; empty disables it.
	EventsDSN     string
	MigrationsDir string
	// KafkaBrokers enables publishing and checkout consumption; empty disables both.
	KafkaBrokers []string

	SessionIdleTTL time.Duration
	SessionMaxAge  time.Duration
	SecureCookies  bool
}

// Load reads the environment, after merging envFile into it when the file
// exists. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var errs []error
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second, &errs),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		ShopifyStoreDomain:    os.Getenv("SHOPIFY_STORE_DOMAIN"),
		StorefrontAccessToken: os.Getenv("SHOPIFY_STOREFRONT_ACCESS_TOKEN"),
		ShopifyAPIVersion:     getEnv("SHOPIFY_API_VERSION", "2024-10"),
		StorefrontTimeout:     getDuration("STOREFRONT_TIMEOUT", 10*time.Second, &errs),
		StorefrontMinInterval: getDuration("STOREFRONT_MIN_INTERVAL", 100*time.Millisecond, &errs),

		CartStore:     strings.ToLower(getEnv("CART_STORE", StoreRedis)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "storefront"),
		CatalogCache:  getBool("CATALOG_CACHE", true, &errs),

		MongoConnectTimeout: getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second, &errs),
		MongoMaxPoolSize:    getUint("MONGO_MAX_POOL_SIZE", 100, &errs),
		MongoMinPoolSize:    getUint("MONGO_MIN_POOL_SIZE", 10, &errs),

		EventsDSN:     getEnv("EVENTS_DSN", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "internal/repository/migrations"),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "")),

		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 30*time.Minute, &errs),
		SessionMaxAge:  getDuration("SESSION_MAX_AGE", 90*24*time.Hour, &errs),
		SecureCookies:  getBool("SECURE_COOKIES", false, &errs),
	}

	if cfg.ShopifyStoreDomain == "" {
		errs = append(errs, errors.New("SHOPIFY_STORE_DOMAIN is required"))
	}
	if cfg.StorefrontAccessToken == "" {
		errs = append(errs, errors.New("SHOPIFY_STOREFRONT_ACCESS_TOKEN is required"))
	}
	switch cfg.CartStore {
	case StoreRedis, StoreMongo, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("CART_STORE must be redis, mongo or memory, got %q", cfg.CartStore))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UsesRedis reports whether any component needs the redis client.
func (c *Config) UsesRedis() bool {
	return c.CartStore == StoreRedis || c.CatalogCache
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getUint(key string, defaultValue uint64, errs *[]error) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
