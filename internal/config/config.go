package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string
	DBDriver    string

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string

	// API Configuration
	APIPort        string
	APIHost        string
	SessionCookie  string
	AllowedOrigins []string

	// Remote backend
	BackendURL     string
	MediaBaseURL   string
	BackendTimeout time.Duration

	// Storefront behaviour
	CartResyncDelay  time.Duration
	NotificationTTL  time.Duration
	PaymentCurrency  string
	MpesaCountryCode string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "sqlite://storefront.db"),
		DBDriver:         getEnv("DB_DRIVER", "pgx"),
		KafkaBrokers:     getEnvAsList("KAFKA_BROKERS", nil),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "storefront-events"),
		APIPort:          getEnv("API_PORT", "8080"),
		APIHost:          getEnv("API_HOST", "0.0.0.0"),
		SessionCookie:    getEnv("SESSION_COOKIE", "sf_session"),
		AllowedOrigins:   getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		BackendURL:       getEnv("BACKEND_URL", "https://refashioned.onrender.com"),
		MediaBaseURL:     getEnv("MEDIA_BASE_URL", "https://res.cloudinary.com/dnqsiqqu9/"),
		BackendTimeout:   getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		CartResyncDelay:  getEnvAsDuration("CART_RESYNC_DELAY", 500*time.Millisecond),
		NotificationTTL:  getEnvAsDuration("NOTIFICATION_TTL", 3*time.Second),
		PaymentCurrency:  getEnv("PAYMENT_CURRENCY", "USD"),
		MpesaCountryCode: getEnv("MPESA_COUNTRY_CODE", "254"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("500ms") or a bare number of
// milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
