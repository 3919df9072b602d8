// Package config loads service configuration from the environment. A local
// .env file is honored in development; real deployments set the variables
// directly. All variables use the MDON_ prefix.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/api needs to start.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	PostgresDSN string

	AuthSecret     string
	AccessTokenTTL time.Duration

	RateLimitPerSec int
	RateLimitBurst  int
	MaxBodyBytes    int64

	AllowedOrigin string

	AuditQueueSize int
}

// Load reads configuration from the environment, after merging an optional
// .env file. Variables already exported win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:        getenv("MDON_HTTP_ADDR", ":8080"),
		GRPCAddr:        getenv("MDON_GRPC_ADDR", ""),
		PostgresDSN:     os.Getenv("MDON_PG_DSN"),
		AuthSecret:      os.Getenv("MDON_AUTH_SECRET"),
		AccessTokenTTL:  15 * time.Minute,
		RateLimitPerSec: 20,
		RateLimitBurst:  40,
		MaxBodyBytes:    1 << 20,
		AllowedOrigin:   getenv("MDON_ALLOWED_ORIGIN", ""),
		AuditQueueSize:  256,
	}

	if raw := os.Getenv("MDON_ACCESS_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid MDON_ACCESS_TOKEN_TTL: %q", raw)
		}
		cfg.AccessTokenTTL = ttl
	}
	if err := intVar(&cfg.RateLimitPerSec, "MDON_RATE_LIMIT_PER_SEC"); err != nil {
		return Config{}, err
	}
	if err := intVar(&cfg.RateLimitBurst, "MDON_RATE_LIMIT_BURST"); err != nil {
		return Config{}, err
	}
	if err := intVar(&cfg.AuditQueueSize, "MDON_AUDIT_QUEUE_SIZE"); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return Config{}, errors.New("MDON_AUTH_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intVar(dst *int, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	*dst = v
	return nil
}
