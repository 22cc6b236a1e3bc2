// Package config reads the server settings from the environment. Values that
// fail to parse fall back to their defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type Config struct {
	Port string

	// Source selects where the dataset comes from: csv, postgres or sqlite.
	Source      string
	DatasetPath string
	Encoding    string
	DatabaseURL string
	SQLitePath  string
	Table       string

	// ReloadInterval re-reads the dataset periodically; zero disables it.
	ReloadInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CORSOrigins []string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	c := Config{
		Port:           getenv("PORT", "3003"),
		Source:         strings.ToLower(getenv("DATASET_SOURCE", SourceCSV)),
		DatasetPath:    getenv("DATASET_PATH", "Dataset.csv"),
		Encoding:       getenv("DATASET_ENCODING", "auto"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getenv("SQLITE_PATH", "restaurants.db"),
		Table:          getenv("DATASET_TABLE", "restaurants"),
		ReloadInterval: durationEnv("RELOAD_INTERVAL", 0),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       durationEnv("CACHE_TTL", 5*time.Minute),
		CORSOrigins:    []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:5174"},
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.CORSOrigins = origins
		}
	}
	return c
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durationEnv accepts Go durations ("90s") or a bare number of seconds.
func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
