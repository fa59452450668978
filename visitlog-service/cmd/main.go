package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"eduhub/pkg/logger"
	"eduhub/visitlog-service/internal/app/visitlog/config"
	"eduhub/visitlog-service/internal/app/visitlog/handler"
	"eduhub/visitlog-service/internal/app/visitlog/processor"
	"eduhub/visitlog-service/internal/app/visitlog/repository"
	"eduhub/visitlog-service/internal/app/visitlog/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	logger.Init("visitlog-service", getLogLevel())

	ctx := context.Background()

	// Подключаемся к MongoDB - хранилищу журнала посещений
	mongoClient, err := connectMongo(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)
	logger.Info().Msg("Connected to MongoDB")

	mongoDB := mongoClient.Database(cfg.Mongo.Database)

	// Подключаемся к PostgreSQL courses-service для сверки агрегатов
	coursesDB, err := connectCoursesDB(cfg.CoursesDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to courses database")
	}
	logger.Info().Msg("Connected to courses PostgreSQL")

	// Репозитории
	visitRepo := repository.NewVisitLogRepository(mongoDB)
	ratingRepo := repository.NewRatingAggregateRepository(coursesDB)

	// Сервисы
	visitService := service.NewVisitLogService(visitRepo)
	reportService := service.NewReportService(visitRepo)
	reconcileService := service.NewReconcileService(ratingRepo)

	// Kafka consumer: события посещений от остальных сервисов
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.VisitTopic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		visitService,
	)
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	logger.Info().
		Str("topic", cfg.Kafka.VisitTopic).
		Str("group", cfg.Kafka.GroupID).
		Msg("Kafka consumer started")

	// Cron: периодическая сверка агрегатов рейтинга
	cronScheduler := processor.NewCronScheduler(reconcileService)
	if err := cronScheduler.Start(ctx, cfg.Cron.ReconcileRatings); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer cronScheduler.Stop()

	// Обработчики и маршруты
	visitLogHandler := handler.NewVisitLogHandler(visitService, reportService)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.SecretKey)

	router := handler.SetupRoutes(visitLogHandler, authMiddleware, visitService)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Visit Log Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Ожидаем сигнала завершения (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Visit Log Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Visit Log Service stopped gracefully")
}

// connectMongo устанавливает соединение с MongoDB с повторными попытками
func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
		if err == nil {
			err = client.Ping(connectCtx, nil)
		}
		cancel()

		if err == nil {
			return client, nil
		}

		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to MongoDB, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

// connectCoursesDB устанавливает соединение с PostgreSQL courses-service.
// Сервис только сверяет агрегаты, поэтому пул соединений небольшой.
func connectCoursesDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to courses database, retrying")
		time.Sleep(3 * time.Second)
	}

	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func getLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
