package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"eduhub/inspector-service/internal/app/inspector/config"
	"eduhub/inspector-service/internal/app/inspector/handler"
	"eduhub/inspector-service/internal/app/inspector/repository"
	"eduhub/inspector-service/internal/app/inspector/service"
	"eduhub/pkg/logger"
	"eduhub/pkg/visitlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	logger.Init("inspector-service", getLogLevel())

	ctx := context.Background()

	// Подключаемся к Redis - хранилищу счётчиков посещений
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Connected to Redis")

	// Kafka producer: журнал посещений
	visitPublisher := visitlog.NewKafkaPublisher("inspector-service", cfg.Kafka.Brokers, cfg.Kafka.VisitTopic)
	defer visitPublisher.Close()

	counterRepo := repository.NewCounterRepository(redisClient)
	counterService := service.NewCounterService(counterRepo)

	inspectorHandler := handler.NewInspectorHandler(counterService)
	router := handler.SetupRoutes(inspectorHandler, visitPublisher)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Inspector Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Ожидаем сигнала завершения (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Inspector Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Inspector Service stopped gracefully")
}

// connectRedis устанавливает соединение с Redis с повторными попытками
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	var err error
	for i := 0; i < 10; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to Redis, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func getLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
