package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Addr           string
	DatabaseURL    string
	DatabaseName   string
	JWTSecret      string
	TokenTTL       time.Duration
	UploadDir      string
	MaxUploadBytes int64
	MaxBodyBytes   int64
	RequireAuth    bool
	CORSOrigins    []string
	Environment    string
	LogLevel       string
	MetricsEnabled bool
	// RunMigrations applies SQL migrations or builds Mongo indexes on connect.
	RunMigrations  bool
}

func Load() Config {
	return Config{
		Addr:           getEnv("APP_ADDR", ":"+getEnv("PORT", "8084")),
		DatabaseURL:    getEnv("DATABASE_URL", getEnv("MONGO_URI", "")),
		DatabaseName:   getEnv("MONGO_DATABASE", "employee_db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getEnvDuration("TOKEN_TTL", time.Hour),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RequireAuth:    getEnvBool("REQUIRE_AUTH", true),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"*"}),
		Environment:    getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", true),
	}
}

// Backend reports which store driver DatabaseURL selects, based on its scheme.
func (c Config) Backend() string {
	parsed, err := url.Parse(strings.TrimSpace(c.DatabaseURL))
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo
	case "postgres", "postgresql":
		return BackendPostgres
	case "memory":
		return BackendMemory
	default:
		return ""
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("MONGO_URI (or DATABASE_URL) is required")
	}
	if c.Backend() == "" {
		return fmt.Errorf("unsupported database url scheme, expected mongodb://, postgres:// or memory://")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}
