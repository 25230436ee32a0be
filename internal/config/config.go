package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	JWTSecret        string
	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPassword     string
	SMTPFrom         string
	FrontendURL      string
	GinMode          string
	ServerAddr       string
	AllowedWSOrigins []string
}

func Load() *Config {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "projectuser"),
		DBPassword:   getEnv("DB_PASSWORD", "projectpassword"),
		DBName:       getEnv("DB_NAME", "project_management"),
		JWTSecret:    getEnv("JWT_SECRET", "default-secret-key-change-me"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@teamly.dev"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		AllowedWSOrigins: []string{
			getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
