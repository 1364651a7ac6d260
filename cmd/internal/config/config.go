package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config centralises all environment and runtime configuration.
type Config struct {
	Env      string
	Release  string
	Addr     string
	LogLevel string

	DBDriver    string
	DatabaseURL string
	AutoMigrate bool

	AWSRegion string
	Cognito   CognitoConfig
	// DevTokenSecret enables HS256 bearer tokens when no user pool is set.
	DevTokenSecret string

	StorageDriver string
	StorageDir    string
	S3Bucket      string
	S3Endpoint    string

	RedisAddr     string
	RedisPassword string

	KafkaBroker string
	KafkaTopic  string

	SentryDSN string

	// ContactRatePerMinute bounds public contact form submissions per IP.
	ContactRatePerMinute int
}

type CognitoConfig struct {
	UserPoolID   string
	ClientID     string
	ClientSecret string
}

func (c CognitoConfig) Enabled() bool {
	return c.UserPoolID != "" && c.ClientID != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the Config from the environment alone.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:         getEnvOrDefault("APP_ENV", "development"),
		Release:     getEnvOrDefault("APP_VERSION", "dev"),
		Addr:        getEnvOrDefault("HTTP_ADDR", ":6060"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		DBDriver:    getEnvOrDefault("DB_DRIVER", "sqlite"),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", "./database.db"),
		AutoMigrate: parseBoolEnv(getEnvOrDefault("AUTO_MIGRATE", "1")),
		AWSRegion:   getEnvOrDefault("AWS_REGION", "us-east-1"),
		Cognito: CognitoConfig{
			UserPoolID:   os.Getenv("COGNITO_USER_POOL_ID"),
			ClientID:     os.Getenv("COGNITO_CLIENT_ID"),
			ClientSecret: os.Getenv("COGNITO_CLIENT_SECRET"),
		},
		DevTokenSecret:       os.Getenv("AUTH_DEV_SECRET"),
		StorageDriver:        getEnvOrDefault("STORAGE_DRIVER", "local"),
		StorageDir:           getEnvOrDefault("STORAGE_DIR", "./data/documents"),
		S3Bucket:             os.Getenv("S3_BUCKET"),
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		KafkaBroker:          os.Getenv("KAFKA_BROKER"),
		KafkaTopic:           getEnvOrDefault("KAFKA_TOPIC", "dashboard_events"),
		SentryDSN:            os.Getenv("SENTRY_DSN"),
		ContactRatePerMinute: getIntEnv("CONTACT_RATE_PER_MINUTE", 5),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !c.Cognito.Enabled() && c.DevTokenSecret == "" {
		return errors.New("either COGNITO_USER_POOL_ID and COGNITO_CLIENT_ID or AUTH_DEV_SECRET must be set")
	}

	switch c.StorageDriver {
	case "local":
		if strings.TrimSpace(c.StorageDir) == "" {
			return errors.New("STORAGE_DIR is empty")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("STORAGE_DRIVER is s3 but S3_BUCKET is empty")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is empty")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getIntEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseBoolEnv(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
