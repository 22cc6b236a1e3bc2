package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATASET_SOURCE", "DATASET_PATH", "RELOAD_INTERVAL", "CACHE_TTL", "REDIS_DB", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "3003" || c.Source != SourceCSV || c.DatasetPath != "Dataset.csv" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.ReloadInterval != 0 || c.CacheTTL != 5*time.Minute || c.RedisDB != 0 {
		t.Fatalf("unexpected durations: %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATASET_SOURCE", "SQLite")
	t.Setenv("RELOAD_INTERVAL", "90")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	c := FromEnv()
	if c.Port != "8080" || c.Source != SourceSQLite || c.RedisDB != 2 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.ReloadInterval != 90*time.Second || c.CacheTTL != 30*time.Second {
		t.Fatalf("durations = %v, %v", c.ReloadInterval, c.CacheTTL)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(c.CORSOrigins, want) {
		t.Fatalf("CORSOrigins = %v, want %v", c.CORSOrigins, want)
	}
}

func TestFromEnvMalformedFallsBack(t *testing.T) {
	t.Setenv("RELOAD_INTERVAL", "soon")
	t.Setenv("CACHE_TTL", "-5s")
	t.Setenv("REDIS_DB", "x")
	c := FromEnv()
	if c.ReloadInterval != 0 || c.CacheTTL != 5*time.Minute || c.RedisDB != 0 {
		t.Fatalf("malformed values should fall back, got %+v", c)
	}
}
