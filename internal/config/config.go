package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Cards    CardConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	NotificationTopic  string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// CardConfig holds the tuning knobs for the card lifecycle, reminder and
// payment sweep jobs. Cycle length is expressed both in months and in days;
// the day count is the conservative bound when the two disagree.
type CardConfig struct {
	RemindersEnabled    bool
	StatusUpdateEnabled bool

	FeeCycleMonths        int
	FeeCycleDays          int
	RenewalThresholdMonth int
	GraceDays             int
	SuspendAfterDays      int

	PendingPaymentTTL time.Duration
	SweepInterval     time.Duration

	// Daily wall-clock schedules in "HH:MM" (server local time).
	StatusJobAt   string
	ReminderJobAt string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			NotificationTopic:  getEnv("NOTIFICATION_TOPIC", "card.notifications"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Property Cards"),
		},
		Cards: CardConfig{
			RemindersEnabled:      getEnvAsBool("CARD_REMINDERS_ENABLED", true),
			StatusUpdateEnabled:   getEnvAsBool("CARD_STATUS_UPDATE_ENABLED", true),
			FeeCycleMonths:        getEnvAsInt("CARD_FEE_CYCLE_MONTHS", 12),
			FeeCycleDays:          getEnvAsInt("CARD_FEE_CYCLE_DAYS", 365),
			RenewalThresholdMonth: getEnvAsInt("CARD_RENEWAL_THRESHOLD_MONTHS", 12),
			GraceDays:             getEnvAsInt("CARD_GRACE_DAYS", 7),
			SuspendAfterDays:      getEnvAsInt("CARD_SUSPEND_AFTER_DAYS", 7),
			PendingPaymentTTL:     time.Duration(getEnvAsInt("CARD_PENDING_TTL_MINUTES", 30)) * time.Minute,
			SweepInterval:         time.Duration(getEnvAsInt("CARD_SWEEP_INTERVAL_MS", 300000)) * time.Millisecond,
			StatusJobAt:           getEnv("CARD_STATUS_JOB_AT", "01:00"),
			ReminderJobAt:         getEnv("CARD_REMINDER_JOB_AT", "08:00"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
