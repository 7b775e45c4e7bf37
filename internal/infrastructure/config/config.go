package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process-start configuration surface. Nothing here is
// runtime-mutable: the signing secret, TTL, and CORS origins are read once
// and injected into the components that need them.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	CORS  CORSConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Required outside development.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,    default=24h"`
	// BcryptCost tunes the password hash work factor.
	BcryptCost int `env:"BCRYPT_COST,  default=10"`
	// HashWorkers bounds concurrent bcrypt operations.
	HashWorkers int64 `env:"HASH_WORKERS, default=8"`
}

type CORSConfig struct {
	Origins []string `env:"CORS_ORIGINS, default=http://localhost:5173,http://localhost:3000"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Env != "development" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	return &cfg, nil
}
