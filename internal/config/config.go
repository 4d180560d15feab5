package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Settings struct {
	Env      string
	Port     string
	LogLevel string

	DBDriver    string
	DatabaseDSN string

	JWTSecret    string
	CookieDomain string
	CookieSecure bool

	CorsOrigins []string

	UploadDir       string
	MaxUploadBytes  int64
	TempFileTTL     time.Duration
	JanitorSchedule string

	OSSEndpoint  string
	OSSAccessKey string
	OSSSecretKey string
	OSSBucket    string

	RetakePolicy string

	AdminEmail    string
	AdminPassword string
}

func (s *Settings) IsProduction() bool {
	return s.Env == EnvProduction
}

func (s *Settings) OSSEnabled() bool {
	return s.OSSEndpoint != "" && s.OSSAccessKey != "" && s.OSSSecretKey != "" && s.OSSBucket != ""
}

// Load reads .env (when present) and the process environment.
func Load() *Settings {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		Logger.WithError(err).Warn("Could not load .env file")
	}

	return &Settings{
		Env:      getEnv("APP_ENV", EnvDevelopment),
		Port:     getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),
		CookieSecure: getEnv("COOKIE_SECURE", "true") != "false",

		CorsOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_MB", 50)) << 20,
		TempFileTTL:     getEnvDuration("TEMP_FILE_TTL", 24*time.Hour),
		JanitorSchedule: getEnv("JANITOR_SCHEDULE", "@every 1h"),

		OSSEndpoint:  os.Getenv("OSS_ENDPOINT"),
		OSSAccessKey: os.Getenv("OSS_ACCESS_KEY"),
		OSSSecretKey: os.Getenv("OSS_SECRET_KEY"),
		OSSBucket:    os.Getenv("OSS_BUCKET"),

		RetakePolicy: getEnv("RETAKE_POLICY", "keep-grade"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		Logger.WithField("key", key).Warnf("Invalid integer %q, using default %d", v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		Logger.WithField("key", key).Warnf("Invalid duration %q, using default %s", v, def)
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
