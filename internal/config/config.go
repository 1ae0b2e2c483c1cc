package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinSigningSecretLength is the shortest AUTH_SIGNING_SECRET accepted (HS256 key size).
const MinSigningSecretLength = 32

var (
	ErrMissingSigningSecret = errors.New("AUTH_SIGNING_SECRET is required")
	ErrShortSigningSecret   = fmt.Errorf("AUTH_SIGNING_SECRET must be at least %d bytes", MinSigningSecretLength)
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	SigningSecret      []byte
	TokenTTL           time.Duration
	BcryptCost         int
	CredentialCacheTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where possible. Auth settings fail fast instead of falling back.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	authCfg, err := loadAuth()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "authcore"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: authCfg,
	}

	return cfg, nil
}

func loadAuth() (AuthConfig, error) {
	secret := os.Getenv("AUTH_SIGNING_SECRET")
	if secret == "" {
		return AuthConfig{}, ErrMissingSigningSecret
	}
	if len(secret) < MinSigningSecretLength {
		return AuthConfig{}, ErrShortSigningSecret
	}

	ttl, err := getEnvAsDuration("AUTH_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return AuthConfig{}, err
	}
	if ttl < time.Second {
		return AuthConfig{}, fmt.Errorf("invalid AUTH_TOKEN_TTL: %s is shorter than one second", ttl)
	}

	cacheTTL, err := getEnvAsDuration("AUTH_CREDENTIAL_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		SigningSecret:      []byte(secret),
		TokenTTL:           ttl,
		BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 12),
		CredentialCacheTTL: cacheTTL,
	}, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
