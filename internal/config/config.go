package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Settings holds everything the service reads from the environment.
// Built once in main and passed into services explicitly - no package-level
// singleton to reach for.
type Settings struct {
	AppName     string
	AppVersion  string
	Environment string
	Port        string

	GeminiAPIKey string
	GeminiModel  string

	SerperAPIKey     string
	SerperTimeout    time.Duration
	SerperMaxResults int

	DatabaseDSN string
}

// Load reads settings from environment variables. The two API keys are
// mandatory; everything else has a sensible local-dev default.
func Load() Settings {
	s := Settings{
		AppName:     getEnv("APP_NAME", "Job Search Query Formatter API"),
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		SerperAPIKey:     os.Getenv("SERPER_API_KEY"),
		SerperTimeout:    time.Duration(getEnvInt("SERPER_TIMEOUT_SECONDS", 30)) * time.Second,
		SerperMaxResults: getEnvInt("SERPER_MAX_RESULTS", 10),

		DatabaseDSN: getEnv("DATABASE_DSN",
			"host=localhost user=postgres password=postgres dbname=jobsearch port=5432 sslmode=disable"),
	}

	if s.GeminiAPIKey == "" {
		log.Fatal("CRITICAL ERROR: GEMINI_API_KEY is empty. Did you load the .env file?")
	}
	if s.SerperAPIKey == "" {
		log.Fatal("CRITICAL ERROR: SERPER_API_KEY is empty. Did you load the .env file?")
	}

	return s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a number, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
