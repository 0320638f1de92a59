package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"packagecatalog/catalog-service/internal/app/catalog/config"
	"packagecatalog/catalog-service/internal/app/catalog/currency"
	"packagecatalog/catalog-service/internal/app/catalog/entity"
	"packagecatalog/catalog-service/internal/app/catalog/handler"
	"packagecatalog/catalog-service/internal/app/catalog/repository"
	"packagecatalog/catalog-service/internal/app/catalog/service"
	"packagecatalog/catalog-service/internal/app/catalog/util"
	"packagecatalog/pkg/logger"
	"packagecatalog/pkg/metrics"
)

const serviceName = "catalog-service"

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := db.AutoMigrate(&entity.PackageRecord{}, &entity.ProductRecord{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get database handle")
	}
	defer sqlDB.Close()

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis используется для кеширования списка пакетов
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	// === КУРСЫ ВАЛЮТ ===
	// Курсы загружаются один раз при первом запросе с пересчетом
	if cfg.ExchangeAPI.AccessKey == "" {
		logger.Warn().Msg("FIXER_API_KEY is not set, currency conversion will be unavailable")
	}
	fixerClient := currency.NewFixerClient(cfg.ExchangeAPI.URL, cfg.ExchangeAPI.AccessKey, cfg.ExchangeAPI.TimeoutSec)
	rateCache := currency.NewRateCache(fixerClient)
	converter := currency.NewConverter(rateCache)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	packageRepo := repository.NewPackageRepository(db)
	pricer := service.NewPackagePricer(converter)
	packageService := service.NewPackageService(
		packageRepo,
		pricer,
		redisClient,
		kafkaProducer,
		cfg.Redis.PackagesTTL,
	)

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	packageHandler := handler.NewPackageHandler(packageService)
	healthHandler := handler.NewHealthHandler(rateCache, map[string]handler.CheckFunc{
		"database": sqlDB.PingContext,
		"redis":    redisClient.Ping,
	})
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	if !authMiddleware.Enabled() {
		logger.Warn().Msg("JWT_SECRET is not set, package modification is not protected")
	}

	router := handler.SetupRoutes(packageHandler, healthHandler, authMiddleware, cfg.CORS.AllowOrigins)

	statsCtx, stopStats := context.WithCancel(context.Background())
	defer stopStats()
	go reportDBStats(statsCtx, db)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("base_path", handler.BasePath).
			Msg("Starting Catalog Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Catalog Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Catalog Service stopped gracefully")
}

// connectDB подключается к PostgreSQL через GORM
// Делает 10 попыток, пока PostgreSQL поднимается в Docker
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
			} else if pingErr := sqlDB.Ping(); pingErr != nil {
				err = pingErr
			} else {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
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

// reportDBStats периодически выгружает состояние пула соединений в Prometheus
func reportDBStats(ctx context.Context, db *gorm.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		sqlDB, err := db.DB()
		if err == nil {
			stats := sqlDB.Stats()
			metrics.SetDbConnections("catalog", stats.Idle, stats.InUse)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
