package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port                 string
	LogLevel             string
	OFXBankID            string
	OFXAccountID         string
	DefaultStatementYear int
	MaxUploadSizeBytes   int64
}

var Cfg *AppConfig

// LoadConfig reads .env (when present) and the OS environment into the
// global Cfg. Every field has a usable default so the tool runs with no
// configuration at all.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, relying on OS environment variables and defaults.")
	}

	maxUploadMB := getEnvAsInt("MAX_UPLOAD_MB", 10)
	if maxUploadMB < 1 {
		log.Printf("WARNING: MAX_UPLOAD_MB=%d is not usable, falling back to 10", maxUploadMB)
		maxUploadMB = 10
	}

	defaultYear := getEnvAsInt("DEFAULT_STATEMENT_YEAR", 0)
	if defaultYear != 0 && (defaultYear < 1990 || defaultYear > 2100) {
		log.Printf("WARNING: DEFAULT_STATEMENT_YEAR=%d is out of range, ignoring", defaultYear)
		defaultYear = 0
	}

	Cfg = &AppConfig{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		OFXBankID:            getEnv("OFX_BANK_ID", "000000"),
		OFXAccountID:         getEnv("OFX_ACCOUNT_ID", "000000000"),
		DefaultStatementYear: defaultYear,
		MaxUploadSizeBytes:   int64(maxUploadMB) * 1024 * 1024,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}
