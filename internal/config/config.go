package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSecretKey is the fallback signing secret. It is public and must be
// overridden with SECRET_KEY outside development.
const DefaultSecretKey = "changeme!"

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost",
	"http://127.0.0.1",
}

// ErrDefaultSecretInProduction is returned by Validate when APP_ENV is
// production and SECRET_KEY was not set.
var ErrDefaultSecretInProduction = errors.New("SECRET_KEY must be set in production")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	Env         string
	DBDriver    string
	DBDSN       string
	ResetDB     bool
	SecretKey   string
	TokenTTL    time.Duration
	BcryptCost  int
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CORSOrigins []string
	UploadDir   string
	LogLevel    string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8100"),
		Env:         getEnv("APP_ENV", "development"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBDSN:       getEnv("DB_DSN", "garage.db"),
		ResetDB:     getEnvBool("RESET_DB", false),
		SecretKey:   getEnv("SECRET_KEY", DefaultSecretKey),
		TokenTTL:    getEnvDuration("TOKEN_TTL", time.Hour),
		BcryptCost:  getEnvInt("BCRYPT_COST", 10),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		CORSOrigins: getEnvList("CORS_ORIGINS", defaultCORSOrigins),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

// UsingDefaultSecret reports whether the signing secret is the public fallback.
func (c *Config) UsingDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects configurations that must not be served.
func (c *Config) Validate() error {
	if c.IsProduction() && c.UsingDefaultSecret() {
		return ErrDefaultSecretInProduction
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is empty")
	}
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return errors.New("DB_DRIVER must be sqlite or mysql")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
