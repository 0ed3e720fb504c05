package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const defaultJWTSecret = "super_secret_key_change_me"

type Config struct {
	Port    string
	GinMode string

	DatabaseURL string
	DBLogLevel  string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadsDir string

	// StrictCartStock checks the merged quantity, not only the requested
	// one, against stock when adding to a cart.
	StrictCartStock bool
	// CatalogRequireAdmin puts product and user management behind an
	// ADMIN session.
	CatalogRequireAdmin bool

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	LogLevel string

	// MetricsAPIKey, when set, must be sent as X-API-KEY to read /metrics.
	MetricsAPIKey string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getenv("PORT", "8080"),
		GinMode:             getenv("GIN_MODE", "debug"),
		DatabaseURL:         databaseURL(),
		DBLogLevel:          getenv("DB_LOG_LEVEL", "warn"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            getDuration("TOKEN_TTL", 7*24*time.Hour),
		CookieName:          getenv("COOKIE_NAME", "auth_token"),
		CookieDomain:        os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:        getBool("COOKIE_SECURE", true),
		CORSOrigins:         splitList(getenv("CORS_ORIGINS", "https://localhost:4000")),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getInt("REDIS_DB", 0),
		UploadsDir:          getenv("UPLOADS_DIR", "uploads"),
		StrictCartStock:     getBool("CART_STRICT_STOCK", false),
		CatalogRequireAdmin: getBool("CATALOG_REQUIRE_ADMIN", false),
		AuthRateLimitRPS:    getFloat("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst:  getInt("AUTH_RATE_LIMIT_BURST", 10),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		MetricsAPIKey:       os.Getenv("METRICS_API_KEY"),
	}

	if cfg.JWTSecret == "" {
		log.Warn("⚠️ JWT_SECRET is not set, falling back to the development secret")
		cfg.JWTSecret = defaultJWTSecret
	}
	return cfg
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_NAME", "ecommerce"),
		getenv("DB_PORT", "5432"),
		getenv("DB_SSLMODE", "disable"),
	)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warnf("⚠️ %s=%q is not a boolean, using %t", key, v, def)
		return def
	}
	return b
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("⚠️ %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return i
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warnf("⚠️ %s=%q is not a number, using %g", key, v, def)
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warnf("⚠️ %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
