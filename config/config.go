package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	envPrefix = "FOODGRAM"

	developmentJWTSecret = "foodgram-development-secret"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerHost string `mapstructure:"SERVER_HOST" validate:"required"`
	ServerPort string `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	BaseURL    string `mapstructure:"BASE_URL" validate:"required,url"`

	// Database configuration
	DBDriver   string `mapstructure:"DB_DRIVER" validate:"oneof=postgres sqlite"`
	DBHost     string `mapstructure:"DB_HOST" validate:"required_if=DBDriver postgres"`
	DBPort     string `mapstructure:"DB_PORT" validate:"required_if=DBDriver postgres"`
	DBUser     string `mapstructure:"DB_USER" validate:"required_if=DBDriver postgres"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME" validate:"required_if=DBDriver postgres"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE" validate:"oneof=disable require verify-ca verify-full"`
	SQLitePath string `mapstructure:"SQLITE_PATH" validate:"required_if=DBDriver sqlite"`

	// Redis configuration, empty host and url disable caching and rate limiting
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"gte=0"`

	// JWT configuration
	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL" validate:"gt=0"`

	// Object storage, empty bucket disables asset cleanup
	S3Bucket   string `mapstructure:"S3_BUCKET"`
	S3Region   string `mapstructure:"S3_REGION"`
	S3Endpoint string `mapstructure:"S3_ENDPOINT"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`

	// Recipe creations allowed per user per hour, 0 disables the limit
	RecipeRateLimit int `mapstructure:"RECIPE_RATE_LIMIT" validate:"gte=0"`
}

var defaults = map[string]interface{}{
	"SERVER_HOST":       "0.0.0.0",
	"SERVER_PORT":       "8080",
	"BASE_URL":          "http://localhost:8080",
	"DB_DRIVER":         "postgres",
	"DB_HOST":           "localhost",
	"DB_PORT":           "5432",
	"DB_USER":           "foodgram",
	"DB_PASSWORD":       "",
	"DB_NAME":           "foodgram",
	"DB_SSL_MODE":       "disable",
	"SQLITE_PATH":       "foodgram.db",
	"REDIS_URL":         "",
	"REDIS_HOST":        "",
	"REDIS_PORT":        "6379",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"JWT_SECRET":        "",
	"JWT_TTL":           "24h",
	"S3_BUCKET":         "",
	"S3_REGION":         "",
	"S3_ENDPOINT":       "",
	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "json",
	"RECIPE_RATE_LIMIT": 0,
}

// secretKeys are read from SECRETS_DIR when the matching variable is unset.
var secretKeys = map[string]string{
	"DB_PASSWORD":    "db_password",
	"JWT_SECRET":     "jwt_secret",
	"REDIS_PASSWORD": "redis_password",
}

// LoadConfig reads FOODGRAM_* environment variables on top of defaults, fills
// credentials from Docker secrets and validates the result for the current
// environment.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind %s", key)
		}
	}

	for key, secret := range secretKeys {
		if v.IsSet(key) && v.GetString(key) != "" {
			continue
		}
		if value := readSecret(secret); value != "" {
			v.Set(key, value)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	cfg.Environment = env
	if cfg.JWTSecret == "" && (env == Development || env == Test) {
		cfg.JWTSecret = developmentJWTSecret
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

// RedisEnabled reports whether a redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}
