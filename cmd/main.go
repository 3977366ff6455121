package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/poller"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	if err := run(cfg, zl); err != nil {
		zl.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := storefront.NewClient(storefront.Config{
		StoreDomain: cfg.ShopifyStoreDomain,
		AccessToken: cfg.StorefrontAccessToken,
		APIVersion:  cfg.ShopifyAPIVersion,
		Timeout:     cfg.StorefrontTimeout,
		MinInterval: cfg.StorefrontMinInterval,
	}, zl.Named("storefront"))

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		zl.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
	}

	ids, mongoDB, err := cartIDStore(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	if mongoDB != nil {
		defer mongoDB.Client().Disconnect(context.Background())
	}

	var sink service.EventSink
	var repo *repository.Repository
	if cfg.EventsDSN != "" {
		repo, err = repository.NewRepository(cfg.EventsDSN)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.RunMigrations(cfg.MigrationsDir); err != nil {
			return err
		}
		sink = repo
		zl.Info("cart event journal enabled", zap.String("dialect", string(repo.Dialect())))
	}

	registry := session.NewRegistry(client, ids, sink, session.Config{IdleTTL: cfg.SessionIdleTTL}, zl.Named("session"))
	defer registry.Close()

	var catalogCache cache.CatalogCache = cache.Nop{}
	if cfg.CatalogCache {
		catalogCache = cache.NewRedisCache(redisClient)
	}
	catalogService := catalog.NewService(client, catalogCache, zl.Named("catalog"))

	if len(cfg.KafkaBrokers) > 0 {
		checkouts := poller.NewPoller(registry, zl.Named("poller"), cfg.KafkaBrokers...)
		defer checkouts.Close()
		go checkouts.Run(ctx)

		if repo != nil {
			outbox := publisher.NewOutboxPoller(repo, zl.Named("publisher"), cfg.KafkaBrokers...)
			defer outbox.Close()
			go outbox.Run(ctx)
		}
	}

	router := h.NewRouter(h.RouterConfig{
		Cart:           h.NewCartHandler(registry, cfg.RequestTimeout, zl),
		Catalog:        h.NewCatalogHandler(catalogService, cfg.RequestTimeout),
		Log:            zl.Named("http"),
		RequestTimeout: cfg.RequestTimeout,
		SecureCookies:  cfg.SecureCookies,
		SessionMaxAge:  cfg.SessionMaxAge,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("storefront starting", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.ShopifyStoreDomain))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}

	zl.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zl.Info("server exited")
	return nil
}

func cartIDStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (store.CartIDStore, *mongo.Database, error) {
	switch cfg.CartStore {
	case config.StoreMongo:
		db, err := store.ConnectMongoDB(ctx, store.MongoConfig{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDBName,
			ConnectTimeout: cfg.MongoConnectTimeout,
			MaxPoolSize:    cfg.MongoMaxPoolSize,
			MinPoolSize:    cfg.MongoMinPoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		s := store.NewMongoStore(db)
		if err := s.CreateIndexes(ctx); err != nil {
			return nil, db, err
		}
		return s, db, nil
	case config.StoreMemory:
		return store.NewMemoryStore(), nil, nil
	default:
		return store.NewRedisStore(redisClient), nil, nil
	}
}
