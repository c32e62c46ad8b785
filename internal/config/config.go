package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DBDSN           string
	AllowOrigin     string  // CORS origin for the API, "*" by default
	IngestRateRPS   float64 // 0 disables the ingest rate limiter
	IngestRateBurst int
	RetentionDays   int // 0 keeps daily rows forever
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func Load() Config {
	// .env is optional; env vars win
	_ = godotenv.Load()

	return Config{
		Port:            getint("PORT", 8080),
		DBDSN:           getenv("DB_DSN", "file:popularity.db?_foreign_keys=on"),
		AllowOrigin:     getenv("ALLOW_ORIGIN", "*"),
		IngestRateRPS:   getfloat("INGEST_RATE_RPS", 0),
		IngestRateBurst: getint("INGEST_RATE_BURST", 10),
		RetentionDays:   getint("RETENTION_DAYS", 0),
	}
}
