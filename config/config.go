package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	Port    string
	BaseURL string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	KafkaBrokers      []string
	OrderEventsTopic  string
	WorkerGroupID     string
	NotificationEager bool

	SMSAPIKey      string
	SMSUsername    string
	SMSSenderID    string
	SMSCountryCode string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	AdminEmail string

	OIDCPrivateKeyPEM string
}

func Load() (*Config, error) {
	// .env is optional; system environment wins
	_ = godotenv.Load()

	cfg := &Config{
		Env:     getEnv("APP_ENV", "development"),
		Port:    getEnv("PORT", "8000"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8000"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Africa/Nairobi"),

		OrderEventsTopic:  getEnv("ORDER_EVENTS_TOPIC", "order.events"),
		WorkerGroupID:     getEnv("WORKER_GROUP_ID", "notification-worker"),
		NotificationEager: getEnv("NOTIFICATIONS_EAGER", "false") == "true",

		SMSAPIKey:      os.Getenv("SMS_API_KEY"),
		SMSUsername:    getEnv("SMS_USERNAME", "sandbox"),
		SMSSenderID:    os.Getenv("SMS_SENDER_ID"),
		SMSCountryCode: getEnv("SMS_COUNTRY_CODE", "+254"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		AdminEmail: getEnv("ADMIN_EMAIL", "admin@example.com"),

		OIDCPrivateKeyPEM: os.Getenv("OIDC_RSA_PRIVATE_KEY"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete: POSTGRES_USER, POSTGRES_PASSWORD and POSTGRES_DB are required")
	}

	return cfg, nil
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
