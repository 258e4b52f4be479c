package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"userhub/internal/auth"
)

// ErrMissingJWTSecret is returned when no signing key is configured.
// The process must not start without one.
var ErrMissingJWTSecret = errors.New("jwt secret is not configured")

// Config holds application level configuration, loaded from an optional
// YAML file and overridden by environment variables.
type Config struct {
	ServerPort      string `yaml:"server_port"`
	MySQLDSN        string `yaml:"mysql_dsn"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisDB         int    `yaml:"redis_db"`
	RedisPass       string `yaml:"redis_password"`
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLSeconds int64  `yaml:"token_ttl_seconds"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
}

// TokenTTL returns the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// Load builds Config with defaults, then the YAML file at path (if any),
// then environment overrides. It fails when the signing key is absent.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ServerPort:      "8080",
		MySQLDSN:        "user:password@tcp(localhost:3306)/userhub?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:       "localhost:6379",
		TokenTTLSeconds: int64(auth.DefaultTokenTTL / time.Second),
		BcryptCost:      auth.DefaultBcryptCost,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = auth.DefaultBcryptCost
	}
	if cfg.TokenTTLSeconds <= 0 {
		cfg.TokenTTLSeconds = int64(auth.DefaultTokenTTL / time.Second)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.MySQLDSN = getEnv("MYSQL_DSN", cfg.MySQLDSN)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisPass = getEnv("REDIS_PASSWORD", cfg.RedisPass)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", cfg.BcryptCost)
	if v := os.Getenv("TOKEN_TTL_SECONDS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TokenTTLSeconds = parsed
		}
	}
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
