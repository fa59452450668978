package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config содержит все настройки сервиса журнала посещений
type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	CoursesDB DatabaseConfig
	Kafka     KafkaConfig
	Cron      CronConfig
	JWT       JWTConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// MongoConfig - настройки подключения к MongoDB,
// где хранятся записи журнала посещений
type MongoConfig struct {
	URI      string
	Database string
}

// DatabaseConfig - настройки подключения к PostgreSQL Courses Service.
// Используется только cron-сверкой агрегатов рейтинга.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig - настройки подписки на топик visit_events
type KafkaConfig struct {
	Brokers    []string
	VisitTopic string
	GroupID    string
	MinBytes   int
	MaxBytes   int
}

// CronConfig - расписание фоновых задач
type CronConfig struct {
	ReconcileRatings string
}

// JWTConfig - общий секрет для проверки токенов auth-service
type JWTConfig struct {
	SecretKey string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "visitlog_service"),
		},
		CoursesDB: DatabaseConfig{
			Host:     getEnv("COURSES_DB_HOST", "localhost"),
			Port:     getEnv("COURSES_DB_PORT", "5432"),
			User:     getEnv("COURSES_DB_USER", "eduhub"),
			Password: getEnv("COURSES_DB_PASSWORD", "eduhub"),
			DBName:   getEnv("COURSES_DB_NAME", "courses_service"),
			SSLMode:  getEnv("COURSES_DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			VisitTopic: getEnv("KAFKA_VISIT_TOPIC", "visit_events"),
			GroupID:    getEnv("KAFKA_GROUP_ID", "visitlog-service-group"),
			MinBytes:   getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes:   getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		Cron: CronConfig{
			// По умолчанию сверяем агрегаты рейтинга раз в час
			ReconcileRatings: getEnv("CRON_RECONCILE_RATINGS", "0 * * * *"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL для gorm
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
