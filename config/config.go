package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Catalog  CatalogConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
	// BulkDetail forces detail resolution through GET /products plus a local
	// scan, for backends that only serve the bulk endpoint.
	BulkDetail bool
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	TopicEvents string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type CatalogConfig struct {
	PageSize        int
	RefreshInterval time.Duration
}

type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	pageSize, _ := strconv.Atoi(getEnv("CATALOG_PAGE_SIZE", "12"))
	if pageSize <= 0 {
		pageSize = 12
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Upstream: UpstreamConfig{
			BaseURL:    getEnv("UPSTREAM_API_URL", "http://127.0.0.1:8000"),
			Timeout:    getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
			BulkDetail: getEnv("UPSTREAM_BULK_DETAIL", "false") == "true",
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          redisDB,
			SnapshotTTL: getDuration("SNAPSHOT_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Enabled:     getEnv("KAFKA_ENABLED", "false") == "true",
			Brokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicEvents: getEnv("KAFKA_TOPIC_EVENTS", "shopping-events"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Catalog: CatalogConfig{
			PageSize:        pageSize,
			RefreshInterval: getDuration("CATALOG_REFRESH_INTERVAL", 15*time.Minute),
		},
		Session: SessionConfig{
			IdleTTL:       getDuration("SESSION_IDLE_TTL", 30*time.Minute),
			SweepInterval: getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, upstream=%s", cfg.Server.Env, cfg.Server.Port, cfg.Upstream.BaseURL)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
