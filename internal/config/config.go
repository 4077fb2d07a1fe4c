package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the terminal client and the
// reference backend.
type Config struct {
	App      AppConfig
	Client   ClientConfig
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig identifies the running process.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// ClientConfig controls the POS terminal client.
type ClientConfig struct {
	// BackendURL is the base URL of the order/auth backend.
	BackendURL string
	// SessionBackend selects the persisted session store: "file" or "redis".
	SessionBackend string
	// StatePath is the session state file used by the file store.
	StatePath string
	// TerminalID namespaces session keys when terminals share a Redis.
	TerminalID string
	// LoginRedirectDelayMs defers the post-login redirect until the session
	// commit has propagated to subscribers.
	LoginRedirectDelayMs int
	// RequestTimeoutSeconds bounds backend calls.
	RequestTimeoutSeconds int
}

// ServerConfig controls the reference backend HTTP server.
type ServerConfig struct {
	Host                  string
	Port                  string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the reference backend.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
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

// AuthConfig defines token and credential parameters for the backend.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int

	// Seed account created at startup when the accounts table is empty.
	SeedUserID   string
	SeedPassword string
	SeedName     string
	SeedType     string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "pos-terminal"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Client: ClientConfig{
			BackendURL:            getEnv("POS_BACKEND_URL", "http://127.0.0.1:8080"),
			SessionBackend:        getEnv("POS_SESSION_BACKEND", "file"),
			StatePath:             getEnv("POS_STATE_PATH", ".pos-session.json"),
			TerminalID:            getEnv("POS_TERMINAL_ID", "terminal-1"),
			LoginRedirectDelayMs:  getEnvAsInt("POS_LOGIN_REDIRECT_DELAY_MS", 50),
			RequestTimeoutSeconds: getEnvAsInt("POS_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Server: ServerConfig{
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
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
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			SeedUserID:            getEnv("AUTH_SEED_USER_ID", ""),
			SeedPassword:          getEnv("AUTH_SEED_PASSWORD", ""),
			SeedName:              getEnv("AUTH_SEED_NAME", ""),
			SeedType:              getEnv("AUTH_SEED_TYPE", "ADMIN"),
		},
	}

	return cfg, nil
}

// Addr returns the backend HTTP bind address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// RequestTimeout returns the configured server request timeout duration.
func (s ServerConfig) RequestTimeout() time.Duration {
	if s.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// LoginRedirectDelay returns the deferred tick between the login state
// commit and the post-login navigation.
func (c ClientConfig) LoginRedirectDelay() time.Duration {
	if c.LoginRedirectDelayMs <= 0 {
		return 0
	}
	return time.Duration(c.LoginRedirectDelayMs) * time.Millisecond
}

// RequestTimeout bounds a single backend call from the client.
func (c ClientConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
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
