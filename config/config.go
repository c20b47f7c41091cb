package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type BookingConfig struct {
	// SeatHoldTTL 座位暫留有效時間，逾時由 Redis TTL 自動釋放
	SeatHoldTTL     time.Duration
	MaxSeatsPerHold int
}

type JWTConfig struct {
	Secret string
}

type KafkaConfig struct {
	// Brokers 為空時停用通知發送
	Brokers           []string
	NotificationTopic string
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env 不存在時直接使用環境變數
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Booking:  GetBookingConfig(),
		JWT:      GetJWTConfig(),
		Kafka:    GetKafkaConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "test"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Booking: BookingConfig{
			SeatHoldTTL:     10 * time.Minute,
			MaxSeatsPerHold: 6,
		},
		JWT: JWTConfig{Secret: "test-secret"},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetBookingConfig() BookingConfig {
	ttlSeconds, err := strconv.Atoi(getEnv("SEAT_HOLD_TTL_SECONDS", "600"))
	if err != nil {
		panic(err)
	}
	maxSeats, err := strconv.Atoi(getEnv("MAX_SEATS_PER_HOLD", "6"))
	if err != nil {
		panic(err)
	}

	return BookingConfig{
		SeatHoldTTL:     time.Duration(ttlSeconds) * time.Second,
		MaxSeatsPerHold: maxSeats,
	}
}

func GetJWTConfig() JWTConfig {
	return JWTConfig{
		Secret: getEnv("JWT_SECRET", "change-me"),
	}
}

func GetKafkaConfig() KafkaConfig {
	brokers := getEnv("KAFKA_BROKERS", "")
	cfg := KafkaConfig{
		NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "notifications"),
	}
	if brokers != "" {
		cfg.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
