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

	AdminAPIKey string

	PolicyBundlePath string
	PolicyBundleID   string
	StaticRisk       int

	ScoreWeightIntegrity int
	ScoreWeightAudio     int
	ScoreWeightPolicy    int

	VerdictAcceptMinOverall   int
	VerdictAcceptMaxRisk      int
	VerdictRejectBelowOverall int

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
		HTTPAddr:                  addr,
		PostgresDSN:               os.Getenv("POSTGRES_DSN"),
		LogLevel:                  envDefault("LOG_LEVEL", "info"),
		AdminAPIKey:               os.Getenv("ADMIN_API_KEY"),
		PolicyBundlePath:          os.Getenv("POLICY_BUNDLE_PATH"),
		PolicyBundleID:            envDefault("POLICY_BUNDLE_ID", "reference_v0"),
		StaticRisk:                envIntDefault("POLICY_STATIC_RISK", 0),
		ScoreWeightIntegrity:      envIntDefault("SCORE_WEIGHT_INTEGRITY", 1),
		ScoreWeightAudio:          envIntDefault("SCORE_WEIGHT_AUDIO", 1),
		ScoreWeightPolicy:         envIntDefault("SCORE_WEIGHT_POLICY", 1),
		VerdictAcceptMinOverall:   envIntDefault("VERDICT_ACCEPT_MIN_OVERALL", 80),
		VerdictAcceptMaxRisk:      envIntDefault("VERDICT_ACCEPT_MAX_RISK", 50),
		VerdictRejectBelowOverall: envIntDefault("VERDICT_REJECT_BELOW_OVERALL", 40),
		RateLimitRequests:         envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds:    envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFailClosed:       envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:          envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RedisAddr:                 os.Getenv("REDIS_ADDR"),
		RedisPassword:             os.Getenv("REDIS_PASSWORD"),
		RedisDB:                   envIntDefault("REDIS_DB", 0),
	}
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
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
	if err != nil || parsed < 0 {
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
