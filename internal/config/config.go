package config

import (
	"os"
	"strconv"
)

// Config holds the environment-derived settings. The caller identity has no
// default on purpose: without one, nothing downstream can be named.
type Config struct {
	User          string
	CatalogPrefix string
	Schema        string
	Volume        string
	VolumesRoot   string
	RunsDB        string
	SpecsDir      string
	Workers       int
	LogLevel      string
}

func Load() *Config {
	return &Config{
		User:          os.Getenv("DLT_USER"),
		CatalogPrefix: getEnv("DLT_CATALOG_PREFIX", "dlt_workshop"),
		Schema:        getEnv("DLT_SCHEMA", "finance"),
		Volume:        getEnv("DLT_VOLUME", "_files"),
		VolumesRoot:   getEnv("DLT_VOLUMES_ROOT", "./volumes"),
		RunsDB:        getEnv("DLT_RUNS_DB", "./dlt-workshop-runs.sqlite"),
		SpecsDir:      getEnv("DLT_SPECS_DIR", "./specs"),
		Workers:       getEnvInt("DLT_WORKERS", 4),
		LogLevel:      getEnv("DLT_LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
