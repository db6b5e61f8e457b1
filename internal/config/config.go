package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wallspace/internal/domain"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "wallspace.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "24h"
	defaultOperationTimeout  = "5s"
	defaultLockTTL           = "10s"
	defaultLockRetries       = "50"
	defaultLockRetryDelay    = "50ms"
	defaultRedisAddr         = "localhost:6379"
	defaultNotificationQueue = "reservation.events"
	defaultRatePerMinute     = "60"
	defaultRateBurst         = "10"
	defaultRetention         = "2160h"
	defaultCORSOrigins       = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"
)

const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	Timezone    *time.Location

	JWTSecret string
	JWTTTL    time.Duration

	// OperationTimeout bounds every engine call whose context carries no deadline.
	OperationTimeout time.Duration
	CapacityPolicy   domain.CapacityPolicy

	LockBackend    string
	LockTTL        time.Duration
	LockRetries    int
	LockRetryDelay time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL       string
	NotificationQueue string

	RateLimitPerMinute float64
	RateLimitBurst     int

	NotificationRetention time.Duration

	CORSAllowedOrigins []string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	tz, err := time.LoadLocation(strings.TrimSpace(getEnv("TIMEZONE", "UTC")))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Timezone = tz

	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.OperationTimeout, err = parseDurationEnv("OPERATION_TIMEOUT", defaultOperationTimeout); err != nil {
		return nil, err
	}
	cfg.CapacityPolicy = domain.CapacityPolicy(strings.ToLower(strings.TrimSpace(
		getEnv("CAPACITY_POLICY", string(domain.CapacityConfirmedAndPending)))))

	cfg.LockBackend = strings.ToLower(strings.TrimSpace(getEnv("LOCK_BACKEND", LockBackendMemory)))
	if cfg.LockTTL, err = parseDurationEnv("LOCK_TTL", defaultLockTTL); err != nil {
		return nil, err
	}
	if cfg.LockRetries, err = parseIntEnv("LOCK_RETRIES", defaultLockRetries); err != nil {
		return nil, err
	}
	if cfg.LockRetryDelay, err = parseDurationEnv("LOCK_RETRY_DELAY", defaultLockRetryDelay); err != nil {
		return nil, err
	}

	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", defaultRedisAddr))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	cfg.RabbitMQURL = strings.TrimSpace(os.Getenv("RABBITMQ_URL"))
	cfg.NotificationQueue = strings.TrimSpace(getEnv("NOTIFICATION_QUEUE", defaultNotificationQueue))

	rpm, err := strconv.ParseFloat(strings.TrimSpace(getEnv("RATE_LIMIT_PER_MINUTE", defaultRatePerMinute)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	cfg.RateLimitPerMinute = rpm
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", defaultRateBurst); err != nil {
		return nil, err
	}

	if cfg.NotificationRetention, err = parseDurationEnv("NOTIFICATION_RETENTION", defaultRetention); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

// Now returns the current time in the configured timezone; calendar "today" is derived from it.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Timezone)
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("OPERATION_TIMEOUT must be > 0")
	}
	if !cfg.CapacityPolicy.IsValid() {
		return fmt.Errorf("CAPACITY_POLICY must be one of: %s, %s",
			domain.CapacityConfirmedAndPending, domain.CapacityConfirmedOnly)
	}
	if cfg.LockBackend != LockBackendMemory && cfg.LockBackend != LockBackendRedis {
		return fmt.Errorf("LOCK_BACKEND must be one of: memory, redis")
	}
	if cfg.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be > 0")
	}
	if cfg.LockRetries <= 0 {
		return fmt.Errorf("LOCK_RETRIES must be > 0")
	}
	if cfg.LockBackend == LockBackendRedis && cfg.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must be set when LOCK_BACKEND=redis")
	}
	if cfg.RateLimitPerMinute < 0 || cfg.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must be >= 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		for _, o := range cfg.CORSAllowedOrigins {
			if o == "*" {
				return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must list origins explicitly")
			}
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
			return fmt.Errorf("in prod/release DATABASE_URL must point to PostgreSQL")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

// splitList parses a comma separated env value, e.g.
// CORS_ALLOWED_ORIGINS=https://app.example,https://admin.app.example
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
