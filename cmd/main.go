package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bazaar/internal/app/packages/config"
	"bazaar/internal/app/packages/entity"
	"bazaar/internal/app/packages/handler"
	apihttp "bazaar/internal/app/packages/infrastructure/http"
	"bazaar/internal/app/packages/infrastructure/messaging"
	"bazaar/internal/app/packages/processor"
	"bazaar/internal/app/packages/repository"
	"bazaar/internal/app/packages/service"
	"bazaar/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("packages-service", logLevel)

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := db.AutoMigrate(&entity.ProductPackage{}, &entity.PackageProduct{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	redisClient, err := connectRedis(cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	productClient := apihttp.NewProductClient(
		cfg.ProductsAPI.URL,
		cfg.ProductsAPI.Username,
		cfg.ProductsAPI.Password,
		cfg.ProductsAPI.TimeoutSec,
	)
	currencyClient := apihttp.NewCurrencyClient(cfg.CurrencyAPI.URL, cfg.CurrencyAPI.TimeoutSec)

	packageRepo := repository.NewPackageRepository(db)
	rateRepo := repository.NewRateRepository(redisClient, cfg.Cache.RateTTL)

	productsCache := service.NewProductsCache(productClient)
	ratesCache := service.NewCurrencyRatesCache(currencyClient, rateRepo)
	currencyService := service.NewCurrencyService(ratesCache)

	packageService := service.NewPackageService(
		packageRepo,
		productsCache,
		currencyService,
		kafkaProducer,
	)

	packageHandler := handler.NewPackageHandler(packageService, cfg.API.MaxPageSize)
	router := handler.SetupRoutes(packageHandler)

	// Планировщик вытеснения: каталог каждые 5 минут,
	// курсы валют ежедневно после публикации upstream
	scheduler := processor.NewCronScheduler(productsCache, ratesCache)
	if err := scheduler.Start(context.Background(), cfg.Cache.ProductEvictSchedule, cfg.Cache.RateEvictSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Packages Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Packages Service...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Packages Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL через GORM
// Использует retry logic для устойчивости при запуске в Docker
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectRedis подключается к Redis и проверяет соединение через ping
func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
