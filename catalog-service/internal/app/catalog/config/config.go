package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения Catalog Service
// Включает конфигурацию для HTTP сервера, PostgreSQL, Redis, Kafka, JWT и сервиса курсов валют
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	JWT         JWTConfig
	ExchangeAPI ExchangeAPIConfig
	Log         LogConfig
	CORS        CORSConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8081)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется для хранения пакетов и их товаров
type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// RedisConfig - настройки подключения к Redis для кеширования
// Используется для кеширования списка пакетов
type RedisConfig struct {
	Host        string        // Хост Redis
	Port        string        // Порт Redis
	Password    string        // Пароль Redis (опционально)
	DB          int           // Номер БД Redis (0-15)
	PackagesTTL time.Duration // Время жизни кеша списка пакетов
}

// KafkaConfig - настройки Kafka для отправки событий
// События отправляются при изменении пакетов (создание/обновление/удаление)
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий PACKAGE_CREATED, PACKAGE_UPDATED, PACKAGE_DELETED
}

// JWTConfig - настройки для проверки JWT токенов
// Пустой секрет отключает проверку изменяющих запросов
type JWTConfig struct {
	Secret string
}

// ExchangeAPIConfig - настройки Fixer API
// Пустой ключ не мешает запуску, ошибка появится при первой загрузке курсов
type ExchangeAPIConfig struct {
	URL        string
	AccessKey  string
	TimeoutSec int
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

type CORSConfig struct {
	AllowOrigins []string
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	// .env необязателен, в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	packagesTTL, err := time.ParseDuration(getEnv("REDIS_PACKAGES_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PACKAGES_TTL value: %w", err)
	}

	timeoutSec := getEnvInt("EXCHANGE_API_TIMEOUT", 10)
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("invalid EXCHANGE_API_TIMEOUT value: %d", timeoutSec)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "catalog_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          redisDB,
			PackagesTTL: packagesTTL,
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getEnv("KAFKA_TOPIC", "package_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		ExchangeAPI: ExchangeAPIConfig{
			URL:        getEnv("EXCHANGE_API_URL", "http://data.fixer.io/api/latest"),
			AccessKey:  strings.TrimSpace(os.Getenv("FIXER_API_KEY")),
			TimeoutSec: timeoutSec,
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", "https://*,http://*"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
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

// getEnvList разбирает список через запятую, пустые элементы отбрасываются
func getEnvList(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
