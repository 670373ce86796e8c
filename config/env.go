package config

import (
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	// If .env is missing, ignore error (env vars can be set by other means)
	_ = godotenv.Load()
	ConfigureLogger()
	logg.Debug("Environment variables loaded (if .env present)")
}

// GetEnv returns the value of key or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
