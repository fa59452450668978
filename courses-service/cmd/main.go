package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"eduhub/courses-service/internal/app/courses/config"
	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/courses-service/internal/app/courses/handler"
	"eduhub/courses-service/internal/app/courses/repository"
	"eduhub/courses-service/internal/app/courses/service"
	"eduhub/courses-service/internal/app/courses/util"
	"eduhub/pkg/logger"
	"eduhub/pkg/visitlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	logger.Init("courses-service", getLogLevel())

	// Подключаемся к базе данных PostgreSQL через GORM
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Connected to PostgreSQL")

	// Миграция схемы
	if err := db.AutoMigrate(&entity.Category{}, &entity.Course{}, &entity.Review{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	// Подключаемся к Redis
	cache, err := util.NewRedisCache(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer cache.Close()
	logger.Info().Msg("Connected to Redis")

	// Kafka producers: события об отзывах и журнал посещений
	reviewProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.ReviewTopic)
	defer reviewProducer.Close()

	visitPublisher := visitlog.NewKafkaPublisher("courses-service", cfg.Kafka.Brokers, cfg.Kafka.VisitTopic)
	defer visitPublisher.Close()

	// Репозитории
	categoryRepo := repository.NewCategoryRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Сервисы
	courseService := service.NewCourseService(categoryRepo, courseRepo, reviewRepo, cache)
	reviewService := service.NewReviewService(reviewRepo, courseRepo, reviewProducer, cache)

	// Обработчики и маршруты
	courseHandler := handler.NewCourseHandler(courseService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.SecretKey)

	router := handler.SetupRoutes(courseHandler, reviewHandler, authMiddleware, visitPublisher)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Courses Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Ожидаем сигнала завершения (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Courses Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Courses Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL через GORM
// с повторными попытками: БД может стартовать дольше сервиса
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func getLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
