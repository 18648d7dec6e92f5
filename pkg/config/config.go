package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Source     SourceConfig
	Monitor    MonitorConfig
	Webhook    WebhookConfig
	Redis      RedisConfig
	NATS       NATSConfig
	CloudWatch CloudWatchConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AckRatePerSec   float64
	AckRateBurst    int
	AllowedOrigins  []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// SourceConfig выбирает источник данных об использовании дисков.
type SourceConfig struct {
	// Kind: "gopsutil" (по умолчанию) или "duf" (обертка над duf --json).
	Kind       string
	DufBinary  string
	DufTimeout time.Duration
}

type MonitorConfig struct {
	PollInterval     time.Duration
	AlertThreshold   float64
	RetentionMaxAge  time.Duration
	RetentionEvery   time.Duration
	HistoryMaxHours  int
	AlertsListLimit  int
	AlertsListMaxCap int
}

type WebhookConfig struct {
	URL         string
	Timeout     time.Duration
	MaxAttempts int
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

type CloudWatchConfig struct {
	MetricsEnabled           bool
	MetricsNamespace         string
	Region                   string
	Endpoint                 string
	AccessKeyID              string
	SecretAccessKey          string
	MetricsBufferSize        int
	MetricsFlushInterval     time.Duration
	MetricsStorageResolution int32
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	pollInterval, err := parseDuration(getEnv("DUF_POLL_INTERVAL", "300s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUF_POLL_INTERVAL: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("DUF_ALERT_THRESHOLD", "90"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DUF_ALERT_THRESHOLD: %w", err)
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("DUF_ALERT_THRESHOLD must be within [0,100], got %v", threshold)
	}

	retentionHours, err := strconv.Atoi(getEnv("DUF_RETENTION_HOURS", "168"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUF_RETENTION_HOURS: %w", err)
	}

	dufTimeout, err := parseDuration(getEnv("DUF_EXEC_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUF_EXEC_TIMEOUT: %w", err)
	}

	webhookTimeout, err := parseDuration(getEnv("DUF_WEBHOOK_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUF_WEBHOOK_TIMEOUT: %w", err)
	}

	webhookAttempts, err := strconv.Atoi(getEnv("DUF_WEBHOOK_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUF_WEBHOOK_MAX_ATTEMPTS: %w", err)
	}

	redisTTL, err := parseDuration(getEnv("REDIS_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cwFlushInterval, err := parseDuration(getEnv("CLOUDWATCH_METRICS_FLUSH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_METRICS_FLUSH_INTERVAL: %w", err)
	}

	ackRate, err := strconv.ParseFloat(getEnv("ACK_RATE_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ACK_RATE_PER_SECOND: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("DUF_PORT", "8503"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AckRatePerSec:   ackRate,
			AckRateBurst:    10,
			AllowedOrigins:  splitList(getEnv("DUF_ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "duf_monitor"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Source: SourceConfig{
			Kind:       getEnv("DUF_SOURCE", "gopsutil"),
			DufBinary:  getEnv("DUF_BINARY", "duf"),
			DufTimeout: dufTimeout,
		},
		Monitor: MonitorConfig{
			PollInterval:     pollInterval,
			AlertThreshold:   threshold,
			RetentionMaxAge:  time.Duration(retentionHours) * time.Hour,
			RetentionEvery:   time.Hour,
			HistoryMaxHours:  8760,
			AlertsListLimit:  50,
			AlertsListMaxCap: 500,
		},
		Webhook: WebhookConfig{
			URL:         getEnv("DUF_WEBHOOK_URL", ""),
			Timeout:     webhookTimeout,
			MaxAttempts: webhookAttempts,
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           redisDB,
			TTL:          redisTTL,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		CloudWatch: CloudWatchConfig{
			MetricsEnabled:           getEnvBool("CLOUDWATCH_METRICS_ENABLED", false),
			MetricsNamespace:         getEnv("CLOUDWATCH_METRICS_NAMESPACE", "DufMonitor/Disk"),
			Region:                   getEnv("CLOUDWATCH_REGION", "us-east-1"),
			Endpoint:                 getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:              getEnv("CLOUDWATCH_ACCESS_KEY_ID", ""),
			SecretAccessKey:          getEnv("CLOUDWATCH_SECRET_ACCESS_KEY", ""),
			MetricsBufferSize:        100,
			MetricsFlushInterval:     cwFlushInterval,
			MetricsStorageResolution: 60,
		},
	}

	if cfg.Monitor.PollInterval <= 0 {
		return nil, fmt.Errorf("DUF_POLL_INTERVAL must be positive")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
