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

	"golang-storefront/configs"
	"golang-storefront/internal/handlers"
	"golang-storefront/internal/middleware"
	"golang-storefront/internal/notify"
	"golang-storefront/internal/repositories"
	"golang-storefront/internal/services"
	"golang-storefront/pkg/apiclient"
	"golang-storefront/pkg/auth"
	"golang-storefront/pkg/cache"
	"golang-storefront/pkg/database"
	"golang-storefront/pkg/logger"
	"golang-storefront/pkg/messaging"
	"golang-storefront/pkg/objectstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const productCacheTTL = 5 * time.Minute

func main() {
	// Load configuration
	config := configs.LoadConfig()

	log, err := logger.New(config.LogLevel, config.Server.Mode != gin.ReleaseMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(config, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(config *configs.Config, log *zap.Logger) error {
	gin.SetMode(config.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is dialed only when the cart backend or the relay uses it; the product list
	// cache rides along when it is there.
	var redisCache *cache.RedisCache
	if config.Cart.Backend == "redis" || config.Cart.Relay == "redis" {
		c, err := cache.NewRedisCache(ctx, config.Redis.URL, config.Redis.Password, config.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer c.Close()
		redisCache = c
	}

	kv, closeKV, err := openCartBackend(ctx, config, redisCache, log)
	if err != nil {
		return err
	}
	defer closeKV()

	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
	defer kafkaProducer.Close()

	bus := notify.NewBus(log.Named("notify"))
	relay, closeRelay, err := buildRelay(config, redisCache, kafkaProducer, log)
	if err != nil {
		return err
	}
	defer closeRelay()
	if relay != nil {
		go func() {
			if err := bus.Attach(ctx, relay); err != nil {
				log.Error("cart relay stopped", zap.Error(err))
			}
		}()
	}

	pricing := services.DefaultPricing()
	unit, err := currency.ParseISO(config.Cart.Currency)
	if err != nil {
		return fmt.Errorf("CART_CURRENCY: %w", err)
	}
	pricing.Currency = unit

	// Remote collaborators
	api := apiclient.New(config.Backend.URL, config.Backend.Timeout)
	images := objectstore.New(config.Storage.URL, config.Storage.Key, config.Storage.Bucket, nil, log.Named("objectstore"))

	// Initialize services
	cartManager := services.NewCartManager(kv, bus, config.Cart.Key, config.Cart.Event, pricing, log.Named("cart"))

	var productCache services.ProductCache
	if redisCache != nil {
		productCache = redisCache
	}
	catalogService := services.NewCatalogService(api, productCache, productCacheTTL, log.Named("catalog"))
	checkoutService := services.NewCheckoutService(api, kafkaProducer, config.Kafka.OrderTopic, pricing.TaxRate, log.Named("checkout"))
	orderService := services.NewOrderService(api)
	userService := services.NewUserService(api)
	imageService := services.NewImageService(images)
	productAdminService := services.NewProductAdminService(api, images, catalogService, log.Named("products"))

	// Initialize middleware
	jwtManager := auth.NewJWTManager(config.JWT.SecretKey)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	rateLimiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst, log.Named("ratelimit"))
	rateLimiter.StartCleanup(10*time.Minute, ctx.Done())

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:        authMiddleware,
		RateLimiter: rateLimiter,
		Logger:      log.Named("http"),
		Cart:        handlers.NewCartHandler(cartManager, catalogService, checkoutService, config.Cart.Event, log.Named("cart")),
		Products:    handlers.NewProductHandler(catalogService, productAdminService),
		Orders:      handlers.NewOrderHandler(orderService),
		Users:       handlers.NewUserHandler(userService),
		Images:      handlers.NewImageHandler(imageService),
		Sessions:    handlers.NewSessionHandler(),
	})

	srv := &http.Server{
		Addr:              config.Server.Host + ":" + config.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("cart_backend", config.Cart.Backend),
			zap.String("cart_relay", config.Cart.Relay),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openCartBackend(ctx context.Context, config *configs.Config, redisCache *cache.RedisCache, log *zap.Logger) (repositories.KVStore, func(), error) {
	switch config.Cart.Backend {
	case "memory":
		return repositories.NewMemoryKVStore(), func() {}, nil
	case "redis":
		return repositories.NewRedisKVStore(redisCache), func() {}, nil
	case "postgres":
		db, err := database.OpenPostgres(config.Database.PostgresURL, log)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresKVStore(db), func() { _ = database.ClosePostgres(db) }, nil
	case "mongo":
		db, err := database.OpenMongo(ctx, config.Database.MongoURL, config.Database.MongoDBName, log)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewMongoKVStore(db), func() { _ = database.CloseMongo(db) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown CART_BACKEND %q", config.Cart.Backend)
	}
}

func buildRelay(config *configs.Config, redisCache *cache.RedisCache, producer *messaging.KafkaProducer, log *zap.Logger) (notify.Relay, func(), error) {
	switch config.Cart.Relay {
	case "", "none":
		return nil, func() {}, nil
	case "redis":
		return notify.NewRedisRelay(redisCache, config.Cart.Event, log.Named("relay")), func() {}, nil
	case "kafka":
		consumer := messaging.NewKafkaConsumer(config.Kafka.Brokers, log.Named("relay"))
		return notify.NewKafkaRelay(producer, consumer, config.Kafka.CartTopic), func() { _ = consumer.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown CART_RELAY %q", config.Cart.Relay)
	}
}
