package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Sessions
	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string

	// Admin
	AdminToken  string
	AdminPhones string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string

	// Org registry
	OrgsConfigPath string

	// Import
	ImportMaxBytes int

	// Import archive (S3 compatible, optional)
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	LogRetention time.Duration
	SentryDSN    string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info(".env loaded")
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "officedesk"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "officedesk.db"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		SessionTTL:    parseDuration(getEnv("SESSION_TTL", "720h"), 720*time.Hour),
		SessionCookie: getEnv("SESSION_COOKIE", "officedesk_session"),

		AdminToken:  getEnv("ADMIN_TOKEN", ""),
		AdminPhones: getEnv("ADMIN_PHONES", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),

		OrgsConfigPath: getEnv("ORGS_CONFIG_PATH", "orgs.json"),

		ImportMaxBytes: parseInt(getEnv("IMPORT_MAX_BYTES", "10485760"), 10<<20),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 720*time.Hour),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// ArchiveEnabled reports whether uploaded import files should be kept in S3.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
