package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	HTTP          ServerConfig
	MySQL         MySQLConfig
	Mongo         MongoConfig
	Log           LogConfig
	Auth          AuthConfig
	Bank          BankConfig
	Mail          MailConfig
	Notifications NotificationsConfig
	Jobs          JobsConfig
}

type AppConfig struct {
	ServiceName    string
	AllowedOrigins []string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MongoConfig configures the optional callback journal. An empty URI
// disables it.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

type BankConfig struct {
	ClientID        string
	StoreKey        string
	GatewayURL      string
	APIURL          string
	APIUser         string
	APIPassword     string
	CallbackBaseURL string
	FrontendURL     string
	SuccessPageURL  string
	FailPageURL     string
	CompanyName     string
	Language        string
	Currency        string
	HTTPTimeout     time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type NotificationsConfig struct {
	MaxAttempts   int32
	RetryInterval time.Duration
	BatchSize     int32
}

type JobsConfig struct {
	NotificationDispatchInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName:    getEnv("APP_SERVICE_NAME", "storefront"),
			AllowedOrigins: getListEnv("APP_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Database:   getEnv("MONGO_DATABASE", "storefront"),
			Collection: getEnv("MONGO_CALLBACK_COLLECTION", "payment_callbacks"),
			Timeout:    getSecondsEnv("MONGO_TIMEOUT_SECONDS", 5*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
			AccessTokenTTL: getMinutesEnv("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*time.Hour),
		},
		Bank: BankConfig{
			ClientID:        getEnv("BANK_CLIENT_ID", ""),
			StoreKey:        getEnv("BANK_STORE_KEY", ""),
			GatewayURL:      getEnv("BANK_3D_URL", "https://torus-stage-halkbankmacedonia.asseco-see.com.tr/fim/est3Dgate"),
			APIURL:          getEnv("BANK_API_URL", "https://torus-stage-halkbankmacedonia.asseco-see.com.tr/fim/api"),
			APIUser:         getEnv("BANK_API_USER", ""),
			APIPassword:     getEnv("BANK_API_PASSWORD", ""),
			CallbackBaseURL: getEnv("BANK_CALLBACK_BASE_URL", "http://localhost:8080/api/payments"),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
			SuccessPageURL:  getEnv("BANK_SUCCESS_PAGE_URL", "http://localhost:3000/payment-success.html"),
			FailPageURL:     getEnv("BANK_FAIL_PAGE_URL", "http://localhost:3000/payment-failed.html"),
			CompanyName:     getEnv("BANK_COMPANY_NAME", ""),
			Language:        getEnv("BANK_LANGUAGE", "en"),
			Currency:        getEnv("BANK_CURRENCY", "807"),
			HTTPTimeout:     getSecondsEnv("BANK_HTTP_TIMEOUT_SECONDS", 15*time.Second),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getIntEnv("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		},
		Notifications: NotificationsConfig{
			MaxAttempts:   int32(getIntEnv("NOTIFICATIONS_MAX_ATTEMPTS", 5)),
			RetryInterval: getMinutesEnv("NOTIFICATIONS_RETRY_INTERVAL_MINUTES", 5*time.Minute),
			BatchSize:     int32(getIntEnv("NOTIFICATIONS_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			NotificationDispatchInterval: getMinutesEnv("NOTIFICATIONS_DISPATCH_INTERVAL_MINUTES", time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	items := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
