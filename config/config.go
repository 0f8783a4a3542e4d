package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	FeedCacheTTL  time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	UploadDir       string
	PublicFeedLimit int64

	CORSOrigins []string
}

// Load reads the configuration from the environment. Only MONGODB_URI and
// JWT_SECRET have no usable default; callers should treat empty values for
// those as fatal.
func Load() Config {
	return Config{
		Env:  getEnv("GO_ENV", "development"),
		Port: getEnvInt("PORT", 5000),

		MongoURI: os.Getenv("MONGODB_URI"),
		MongoDB:  getEnv("MONGODB_DB", "cityplus"),

		RedisAddr:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		FeedCacheTTL:  time.Duration(getEnvInt("FEED_CACHE_TTL_SECONDS", 60)) * time.Second,

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24*7)) * time.Hour,

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		PublicFeedLimit: int64(getEnvInt("PUBLIC_FEED_LIMIT", 50)),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
