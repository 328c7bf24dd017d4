package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vaishnavid04/Everwear/internal/auth"
	"github.com/vaishnavid04/Everwear/internal/cache"
	"github.com/vaishnavid04/Everwear/internal/catalog"
	"github.com/vaishnavid04/Everwear/internal/events"
	"github.com/vaishnavid04/Everwear/internal/httpapi"
	"github.com/vaishnavid04/Everwear/internal/orders"
	"github.com/vaishnavid04/Everwear/internal/repository"
	"github.com/vaishnavid04/Everwear/internal/service"
)

type Config struct {
	HTTPPort string

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	OrdersMigrations string

	CatalogDBPath     string
	CatalogMigrations string

	KafkaBrokers []string

	JWTSecret string
	TokenTTL  time.Duration

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "everwear"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		PostgresHost:      getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:      pgPort,
		PostgresUser:      getEnv("POSTGRES_USER", "everwear"),
		PostgresPassword:  getEnv("POSTGRES_PASSWORD", "everwear"),
		PostgresDB:        getEnv("POSTGRES_DB", "everwear_orders"),
		OrdersMigrations:  getEnv("ORDERS_MIGRATIONS_PATH", "internal/orders/migrations"),
		CatalogDBPath:     getEnv("CATALOG_DB_PATH", "everwear_catalog.db"),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS_PATH", "internal/catalog/migrations"),
		KafkaBrokers:      brokers,
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:          7 * 24 * time.Hour,
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Carts and users live in MongoDB
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	cartRepo := repository.NewMongoCartRepository(mongoDB)
	userRepo := repository.NewMongoUserRepository(mongoDB)
	inquiryRepo := repository.NewMongoInquiryRepository(mongoDB)
	ensureIndexes(ctx, cartRepo, userRepo)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	cartCache := cache.NewRedisCache(redisClient)

	// Orders live in Postgres
	ordersCreds := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.OrdersMigrations,
	}
	ordersRepo, err := orders.NewRepository(ordersCreds)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(ordersCreds); err != nil {
		log.Fatalf("Orders migrations failed: %v", err)
	}
	log.Printf("Connected to Postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)

	// Catalog lives in SQLite, seeded by its migrations
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrations); err != nil {
		log.Fatalf("Catalog migrations failed: %v", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	cartService := service.NewCartService(cartRepo, cartCache)
	authService := service.NewAuthService(userRepo, tokens)
	chatService := service.NewChatService(inquiryRepo)

	// Kafka is optional: without brokers checkout still clears the cart
	// on the request path, there is just no out-of-band retry.
	var publisher service.OrderEventPublisher
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		consumer := events.NewConsumer(cartService, cartCache, cfg.KafkaBrokers...)
		defer consumer.Close()
		go consumer.Run(consumerCtx)
		log.Printf("Kafka order events enabled on %v", cfg.KafkaBrokers)
	}

	checkoutService := service.NewCheckoutService(ordersRepo, cartService, publisher)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Tokens:         tokens,
		Auth:           authService,
		Catalog:        catalogRepo,
		Carts:          cartService,
		Checkout:       checkoutService,
		Orders:         ordersRepo,
		Chat:           chatService,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "everwear-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Everwear API listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

type indexCreator interface {
	CreateIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, repos ...interface{}) {
	for _, repo := range repos {
		creator, ok := repo.(indexCreator)
		if !ok {
			continue
		}
		if err := creator.CreateIndexes(ctx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}
}
