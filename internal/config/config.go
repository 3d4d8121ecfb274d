package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	MySQLDSN string

	SportMonksBaseURL   string
	SportMonksAPIKey    string
	SportMonksPageSize  int
	SportMonksRateLimit float64
	HTTPTimeout         time.Duration

	AdminTokens []string

	SyncOnStart  bool
	SyncInterval time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOSecure    bool
	MinIOBucket    string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Addr:     getenv("ADDR", ":8080"),
		MySQLDSN: getenv("MYSQL_DSN", "betnotes:betnotes@tcp(127.0.0.1:3306)/betnotes?charset=utf8mb4&parseTime=True&loc=Local"),

		SportMonksBaseURL:   getenv("SPORTMONKS_BASE_URL", "https://api.sportmonks.com/v3"),
		SportMonksAPIKey:    getenv("SPORTMONKS_API_KEY", ""),
		SportMonksPageSize:  getenvInt("SPORTMONKS_PAGE_SIZE", 50),
		SportMonksRateLimit: getenvFloat("SPORTMONKS_RATE_LIMIT", 0),
		HTTPTimeout:         time.Duration(getenvInt("HTTP_TIMEOUT_SECONDS", 20)) * time.Second,

		AdminTokens: getenvList("ADMIN_TOKENS"),

		SyncOnStart:  getenvBool("SYNC_ON_START", false),
		SyncInterval: time.Duration(getenvInt("SYNC_INTERVAL_MINUTES", 0)) * time.Minute,

		MinIOEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getenv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getenv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOSecure:    getenvBool("MINIO_SECURE", false),
		MinIOBucket:    getenv("MINIO_BUCKET", "betnotes"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvList(key string) []string {
	out := []string{}
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
