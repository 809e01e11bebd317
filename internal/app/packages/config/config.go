package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки приложения Packages Service
// Включает конфигурацию для HTTP сервера, PostgreSQL, Redis, Kafka и внешних API
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	ProductsAPI ProductsAPIConfig
	CurrencyAPI CurrencyAPIConfig
	API         APIConfig
	Cache       CacheConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8080)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется для хранения пакетов и связей пакет-товар
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - настройки подключения к Redis
// Redis хранит снапшот курсов валют между ежедневными обновлениями
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - настройки Kafka для отправки событий
// События отправляются при изменении пакетов (создание/обновление/удаление)
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий PACKAGE_CREATED, PACKAGE_UPDATED, PACKAGE_DELETED
}

// ProductsAPIConfig - настройки клиента внешнего каталога товаров
type ProductsAPIConfig struct {
	URL        string // Полный URL bulk-эндпоинта каталога
	Username   string // Basic auth логин (опционально)
	Password   string // Basic auth пароль (опционально)
	TimeoutSec int    // Таймаут HTTP запроса в секундах
}

// CurrencyAPIConfig - настройки клиента внешнего API курсов валют
// API должен возвращать курсы относительно USD
type CurrencyAPIConfig struct {
	URL        string
	TimeoutSec int
}

// APIConfig - настройки собственного REST API
type APIConfig struct {
	MaxPageSize int // Верхняя граница page_size при листинге пакетов
}

// CacheConfig - расписания вытеснения кешей и TTL снапшота курсов
type CacheConfig struct {
	// Каталог товаров вытесняется каждые 5 минут
	ProductEvictSchedule string
	// Курсы публикуются upstream около 16:00 CET, вытесняем в 17:00 с запасом
	RateEvictSchedule string
	// Страховочный TTL записи курсов в Redis на случай пропуска cron задачи
	RateTTL time.Duration
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	maxPageSize, err := strconv.Atoi(getEnv("API_MAX_PAGE_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_MAX_PAGE_SIZE value: %w", err)
	}

	productsTimeout, err := strconv.Atoi(getEnv("PRODUCTS_API_TIMEOUT_SEC", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRODUCTS_API_TIMEOUT_SEC value: %w", err)
	}

	currencyTimeout, err := strconv.Atoi(getEnv("CURRENCY_API_TIMEOUT_SEC", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid CURRENCY_API_TIMEOUT_SEC value: %w", err)
	}

	rateTTLHours, err := strconv.Atoi(getEnv("CURRENCY_RATE_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid CURRENCY_RATE_TTL_HOURS value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "packages_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "package_events"),
		},
		ProductsAPI: ProductsAPIConfig{
			URL:        getEnv("PRODUCTS_API_URL", "https://product-service.herokuapp.com/api/v1/products"),
			Username:   getEnv("PRODUCTS_API_USERNAME", "user"),
			Password:   getEnv("PRODUCTS_API_PASSWORD", "pass"),
			TimeoutSec: productsTimeout,
		},
		CurrencyAPI: CurrencyAPIConfig{
			URL:        getEnv("CURRENCY_API_URL", "https://api.frankfurter.dev/v1/latest?base=USD"),
			TimeoutSec: currencyTimeout,
		},
		API: APIConfig{
			MaxPageSize: maxPageSize,
		},
		Cache: CacheConfig{
			ProductEvictSchedule: getEnv("PRODUCT_CACHE_EVICT_SCHEDULE", "*/5 * * * *"),
			RateEvictSchedule:    getEnv("CURRENCY_RATE_EVICT_SCHEDULE", "CRON_TZ=Europe/Berlin 0 17 * * *"),
			RateTTL:              time.Duration(rateTTLHours) * time.Hour,
		},
	}, nil
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
