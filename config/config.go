package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	// Outbound notification gateway (SMS/WhatsApp dispatch collaborator)
	NotifyApiUrl string
	NotifyApiKey string

	// SendGrid for the email notification channel
	SendgridApiKey string
	EmailSender    string

	// Live-session provider (attendance report pull + webhook verification)
	SessionApiUrl       string
	SessionApiKey       string
	SessionWebhookToken string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "lms"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		NotifyApiUrl: getEnv("NOTIFY_API_URL", "https://gateway.example.com/v1/messages"),
		NotifyApiKey: getEnv("NOTIFY_API_KEY", ""),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@example.com"),

		SessionApiUrl:       getEnv("SESSION_API_URL", "https://api.zoom.us/v2"),
		SessionApiKey:       getEnv("SESSION_API_KEY", ""),
		SessionWebhookToken: getEnv("SESSION_WEBHOOK_TOKEN", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SessionWebhookToken == "" {
		log.Println("Warning: SESSION_WEBHOOK_TOKEN is empty. Attendance webhooks will be rejected.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
