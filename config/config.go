package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret    string
	AuthRequired bool

	// AI collaborator
	AIAPIURL            string
	AIAPIKey            string
	AIModel             string
	AITimeout           time.Duration
	AIRequestsPerSecond float64
	AIDeductionsEnabled bool

	// Vision and image archive
	AWSRegion     string
	S3BucketName  string
	VisionEnabled bool

	// Mentor sessions
	SessionIdleTTL time.Duration

	RateLimitPerHour   int
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) error {
	loadCommon(cfg)

	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		cfg.DBPassword = os.Getenv("DB_PASSWORD")
	}
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = firstNonEmpty(os.Getenv("TEST_JWT_SECRET"), os.Getenv("JWT_SECRET"))
	cfg.RedisPassword = firstNonEmpty(os.Getenv("TEST_REDIS_PASSWORD"), os.Getenv("REDIS_PASSWORD"))
	cfg.AIAPIKey = os.Getenv("AI_API_KEY")

	return nil
}

// loadDevConfig loads configuration for development, optionally from a .env file.
// Docker secrets override the environment when present.
func loadDevConfig(cfg *Config) error {
	envFile := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	loadCommon(cfg)

	cfg.DBPassword = firstNonEmpty(readSecret("db_password"), os.Getenv("DB_PASSWORD"))
	cfg.JWTSecret = firstNonEmpty(readSecret("jwt_secret"), os.Getenv("JWT_SECRET"), "dev-secret-change-me")
	cfg.RedisPassword = firstNonEmpty(readSecret("redis_password"), os.Getenv("REDIS_PASSWORD"))
	cfg.AIAPIKey = firstNonEmpty(readSecret("ai_api_key"), os.Getenv("AI_API_KEY"))

	return nil
}

// loadProdConfig loads configuration for production; sensitive values come ONLY from Docker secrets
func loadProdConfig(cfg *Config) error {
	loadCommon(cfg)
	if os.Getenv("DB_DRIVER") == "" {
		cfg.DBDriver = "postgres"
	}

	cfg.DBUser = firstNonEmpty(readSecret("db_user"), cfg.DBUser)
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.AIAPIKey = readSecret("ai_api_key")
	cfg.AuthRequired = getBool("AUTH_REQUIRED", true)

	return nil
}

// loadCommon fills every non-sensitive field from the environment
func loadCommon(cfg *Config) {
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8000")

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", "sqlite"))
	cfg.DBPath = getEnv("DB_PATH", "cookmate.db")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "cookmate")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.AuthRequired = getBool("AUTH_REQUIRED", false)

	cfg.AIAPIURL = getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions")
	cfg.AIModel = getEnv("AI_MODEL", "gpt-4o-mini")
	cfg.AITimeout = getDuration("AI_TIMEOUT", 30*time.Second)
	cfg.AIRequestsPerSecond = getFloat("AI_REQUESTS_PER_SECOND", 2)
	cfg.AIDeductionsEnabled = getBool("AI_DEDUCTIONS_ENABLED", false)

	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.VisionEnabled = getBool("VISION_ENABLED", false)

	cfg.SessionIdleTTL = getDuration("SESSION_IDLE_TTL", 0)
	cfg.RateLimitPerHour = getInt("RATE_LIMIT_PER_HOUR", 30)
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"))

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
