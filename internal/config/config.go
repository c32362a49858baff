package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultShutdownTimeoutSec = 15

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableRedis bool
	RedisURL    string

	// Server
	Port               string
	Environment        string
	LogLevel           string
	TemplatesDir       string
	ShutdownTimeoutSec int

	// CORS
	CORSOrigins []string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Features
	EnableCache   bool
	EnableMetrics bool

	// Network
	MainSiteName    string
	MainSiteURL     string
	DefaultSiteID   uint
	MenuCacheTTLSec int
	SiteSeedDir     string
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "menuuser"),
		DBPassword: getEnv("DB_PASSWORD", "menupassword"),
		DBName:     getEnv("DB_NAME", "networkmenu"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// Server
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "debug"),
		TemplatesDir:       getEnv("TEMPLATES_DIR", "./templates"),
		ShutdownTimeoutSec: getEnvAsInt("SHUTDOWN_TIMEOUT", defaultShutdownTimeoutSec),

		// CORS
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 20),

		// Features
		EnableCache:   getEnvAsBool("ENABLE_CACHE", true),
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),

		// Network
		MainSiteName:    getEnv("SITE_NAME", "Main Site"),
		MainSiteURL:     getEnv("SITE_URL", "http://localhost:8080"),
		DefaultSiteID:   uint(getEnvAsInt("DEFAULT_SITE_ID", 1)),
		MenuCacheTTLSec: getEnvAsInt("MENU_CACHE_TTL", 300),
		SiteSeedDir:     getEnv("SITE_SEED_DIR", "./data/sites"),
	}

	if c.DefaultSiteID == 0 {
		c.DefaultSiteID = 1
	}
	if c.ShutdownTimeoutSec == 0 {
		c.ShutdownTimeoutSec = defaultShutdownTimeoutSec
	}

	// Build DSN
	c.DatabaseURL = getEnv("DATABASE_URL", "")
	if c.DatabaseURL == "" {
		c.DatabaseURL = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
		)
	}

	// Cache needs Redis
	if !c.EnableRedis {
		c.EnableCache = false
	}

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ShutdownTimeout bounds how long in-flight menu requests may drain.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
