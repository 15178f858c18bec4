package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	CORS_ORIGIN string

	// APP_URL is the externally reachable base URL, used in the emailed
	// verification link.
	APP_URL string

	// PAYMENT_ENDPOINT_URL is where the upgrade flow posts simulated
	// charges. Defaults to this process's own /simulate-payment route.
	PAYMENT_ENDPOINT_URL string

	ASSET_DIR string

	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_USERNAME string
	SMTP_PASSWORD string
	SMTP_FROM     string

	CONTENT_REFRESH_INTERVAL time.Duration
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")
	APP_URL = getEnv("APP_URL", "http://localhost:"+PORT)
	PAYMENT_ENDPOINT_URL = getEnv("PAYMENT_ENDPOINT_URL", "http://localhost:"+PORT+"/simulate-payment")
	ASSET_DIR = getEnv("ASSET_DIR", "./assets")

	SMTP_HOST = getEnv("SMTP_HOST", "localhost")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
	SMTP_USERNAME = getEnv("SMTP_USERNAME", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	SMTP_FROM = getEnv("SMTP_FROM", "no-reply@diabeater.com")

	refreshSeconds, err := strconv.Atoi(getEnv("CONTENT_REFRESH_SECONDS", "30"))
	if err != nil || refreshSeconds <= 0 {
		refreshSeconds = 30
	}
	CONTENT_REFRESH_INTERVAL = time.Duration(refreshSeconds) * time.Second
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
