package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	SigningSecret    string
	SessionSecret    string
	TokenTTLMinutes  int
	PublicBaseURL    string
	SigningPolicyDir string

	StorageBaseURL        string
	StorageTimeoutSeconds int

	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitFailClosed    bool
	RateLimitMaxKeys       int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:               addr,
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		LogLevel:               envDefault("LOG_LEVEL", "info"),
		SigningSecret:          os.Getenv("SIGNING_SECRET"),
		SessionSecret:          os.Getenv("SESSION_SECRET"),
		TokenTTLMinutes:        envIntDefault("TOKEN_TTL_MINUTES", 30),
		PublicBaseURL:          envDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		SigningPolicyDir:       os.Getenv("SIGNING_POLICY_DIR"),
		StorageBaseURL:         os.Getenv("STORAGE_BASE_URL"),
		StorageTimeoutSeconds:  envIntDefault("STORAGE_TIMEOUT_SECONDS", 10),
		RateLimitRequests:      envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds: envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFailClosed:    envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:       envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                envIntDefault("REDIS_DB", 0),
	}
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}

func (c Config) TokenTTL() time.Duration {
	if c.TokenTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c Config) StorageTimeout() time.Duration {
	if c.StorageTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.StorageTimeoutSeconds) * time.Second
}
