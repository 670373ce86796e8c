package config

import (
	"os"
	"strings"
	"sync"
)

// Storage drivers.
const (
	DriverXLSX  = "xlsx"
	DriverSQL   = "sql"
	DriverRedis = "redis"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName         string
	Port            string
	Env             string
	Debug           bool
	SettingsPath    string
	StorageDriver   string
	CatalogDriver   string
	DueScanSchedule string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() *Config {
	once.Do(func() {
		AppConfig = configFromEnv()
	})
	return AppConfig
}

func configFromEnv() *Config {
	storage := strings.ToLower(GetEnv("STORAGE_DRIVER", DriverXLSX))
	return &Config{
		AppName:         GetEnv("APP_NAME", "ppe"),
		Port:            GetEnv("PORT", "8080"),
		Env:             GetEnv("APP_ENV", "production"),
		Debug:           os.Getenv("DEBUG") == "true",
		SettingsPath:    GetEnv("PPE_SETTINGS", GetEnv("AAP_SETTINGS", "settings.json")),
		StorageDriver:   storage,
		CatalogDriver:   strings.ToLower(GetEnv("CATALOG_DRIVER", storage)),
		DueScanSchedule: GetEnv("DUE_SCAN_SCHEDULE", "0 7 * * *"),
	}
}
