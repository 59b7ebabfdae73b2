package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	S3       S3Config
	CORS     CORSConfig
	Log      LogConfig
	Checkout CheckoutConfig
	Sweeper  SweeperConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	// CookieSecure marks the profile cookie Secure (set behind TLS).
	CookieSecure bool
}

// APIConfig points at the remote shop API consumed by the gateway.
type APIConfig struct {
	BaseURL string
	// RefreshOnUnauthorized enables the single retry-after-refresh policy.
	RefreshOnUnauthorized bool
}

type StorageConfig struct {
	Driver     string // memory, file, redis, postgres, s3
	FileDir    string
	ProfileTTL time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type CheckoutConfig struct {
	// SubmitOrders sends orders to the remote API instead of simulating them.
	SubmitOrders bool
	RequireLogin bool
}

type SweeperConfig struct {
	Enabled  bool
	Schedule string
	MaxIdle  time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			GinMode:      getEnv("GIN_MODE", "debug"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			CookieSecure: parseBool(getEnv("COOKIE_SECURE", "false")),
		},
		API: APIConfig{
			BaseURL:               strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000/api"), "/"),
			RefreshOnUnauthorized: parseBool(getEnv("API_REFRESH_ON_401", "true")),
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", "memory"),
			FileDir:    getEnv("STORAGE_FILE_DIR", "./data/profiles"),
			ProfileTTL: parseDuration(getEnv("STORAGE_PROFILE_TTL", "720h"), 720*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", "storefront-profiles"),
			Prefix:          getEnv("AWS_S3_PREFIX", "profiles"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", ""),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Checkout: CheckoutConfig{
			SubmitOrders: parseBool(getEnv("CHECKOUT_SUBMIT_ORDERS", "false")),
			RequireLogin: parseBool(getEnv("CHECKOUT_REQUIRE_LOGIN", "false")),
		},
		Sweeper: SweeperConfig{
			Enabled:  parseBool(getEnv("SWEEPER_ENABLED", "false")),
			Schedule: getEnv("SWEEPER_SCHEDULE", "@every 1h"),
			MaxIdle:  parseDuration(getEnv("SWEEPER_MAX_IDLE", "720h"), 720*time.Hour),
		},
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Printf("Invalid boolean %s, using false", s)
		return false
	}
	return b
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using 0", s)
		return 0
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
