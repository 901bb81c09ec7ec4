package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Telegram
	BotToken      string
	WebAppURL     string
	WebhookPath   string
	WebhookSecret string

	// JWT for the Mini App API
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Hydration defaults
	DefaultMlPerKg int

	// Logging
	LogRetentionDays int

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Local development convenience; no-op when the file is absent.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "hydro_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		BotToken:      getEnv("BOT_TOKEN", ""),
		WebAppURL:     getEnv("WEBAPP_URL", ""),
		WebhookPath:   getEnv("WEBHOOK_PATH", "/telegram/webhook"),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "1h")),

		DefaultMlPerKg: getEnvInt("DEFAULT_ML_PER_KG", 33),

		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// Validate checks the invariants main refuses to start without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DefaultMlPerKg < 30 || c.DefaultMlPerKg > 35 {
		return fmt.Errorf("DEFAULT_ML_PER_KG must be 30..35, got %d", c.DefaultMlPerKg)
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Hour
	}
	return d
}
