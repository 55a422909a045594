package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Queue    QueueConfig    `yaml:"queue"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	GRPC     GRPCConfig     `yaml:"grpc"`
}

type ServerConfig struct {
	Address  string `yaml:"address"`
	LogLevel string `yaml:"log_level"`
	GinMode  string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuthConfig holds the shared secret of the identity provider that issues
// bearer tokens. Tokens are verified here, never issued.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	FlightTTL time.Duration `yaml:"flight_ttl"`
}

// QueueConfig selects where order events go: "memory", "redis" or "kafka".
type QueueConfig struct {
	Backend    string `yaml:"backend"`
	BufferSize int    `yaml:"buffer_size"`
	ConsumerID string `yaml:"consumer_id"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// GRPCConfig enables the admin health listener when Address is set.
type GRPCConfig struct {
	Address string `yaml:"address"`
}

var AppConfig *Config

// LoadConfig builds the configuration from defaults, an optional YAML file
// and environment variables, in that order of precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:  ":8080",
			LogLevel: "info",
			GinMode:  "release",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "airport",
			SSLMode:  "disable",
			Migrate:  true,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Auth: AuthConfig{
			JWTSecret: "change-me",
		},
		Cache: CacheConfig{
			Enabled:   true,
			FlightTTL: 2 * time.Minute,
		},
		Queue: QueueConfig{
			Backend:    "memory",
			BufferSize: 256,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "airport.orders",
			GroupID: "airport-cache-invalidator",
		},
	}
}

func LoadTestConfig() *Config {
	cfg := Default()
	cfg.Database = DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnv("TEST_DB_PORT", "5433"),
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
		Migrate:  true,
	}
	cfg.Redis = RedisConfig{
		Host: getEnv("TEST_REDIS_HOST", "localhost"),
		Port: getEnv("TEST_REDIS_PORT", "6380"),
		DB:   1,
	}
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func applyEnv(cfg *Config) error {
	cfg.Server.Address = getEnv("SERVER_ADDRESS", cfg.Server.Address)
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", cfg.Server.LogLevel)
	cfg.Server.GinMode = getEnv("GIN_MODE", cfg.Server.GinMode)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", cfg.Database.SSLMode)

	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.Issuer = getEnv("JWT_ISSUER", cfg.Auth.Issuer)

	if v := os.Getenv("FLIGHT_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FLIGHT_CACHE_TTL: %w", err)
		}
		cfg.Cache.FlightTTL = ttl
	}

	cfg.Queue.Backend = getEnv("QUEUE_BACKEND", cfg.Queue.Backend)
	cfg.Queue.ConsumerID = getEnv("QUEUE_CONSUMER_ID", cfg.Queue.ConsumerID)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.GRPC.Address = getEnv("GRPC_ADDRESS", cfg.GRPC.Address)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
