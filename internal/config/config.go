package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Cache    CacheConfig
	HTTP     HTTPConfig
	Kafka    KafkaConfig
	Snapshot SnapshotConfig
}

type DBConfig struct {
	DSN         string
	AutoMigrate bool
}

type CacheConfig struct {
	// Backend is "redis" or "memory".
	Backend   string
	RedisAddr string
}

type HTTPConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string

	// EventsTopic receives reconciliation events. Empty disables them.
	EventsTopic string
}

type SnapshotConfig struct {
	File       string
	Interval   time.Duration
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	interval, err := time.ParseDuration(getEnv("UPDATE_INTERVAL", "15s"))
	if err != nil {
		return nil, err
	}
	retryDelay, err := time.ParseDuration(getEnv("RETRY_DELAY", "15s"))
	if err != nil {
		return nil, err
	}
	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		brokers = strings.Split(v, ",")
	}

	return &Config{
		DB: DBConfig{
			DSN:         getEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/menu-db?parseTime=true"),
			AutoMigrate: autoMigrate,
		},
		Cache: CacheConfig{
			Backend:   getEnv("CACHE_BACKEND", "redis"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8000"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   getEnv("SNAPSHOT_TOPIC", "menu-snapshot"),
			GroupID: getEnv("SNAPSHOT_GROUP", "menu-updater-group"),

			EventsTopic: getEnv("CATALOG_EVENTS_TOPIC", ""),
		},
		Snapshot: SnapshotConfig{
			File:       getEnv("SNAPSHOT_FILE", "admin/Menu.json"),
			Interval:   interval,
			RetryDelay: retryDelay,
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
