// Package config reads process configuration from the environment so main
// stays lean. Every knob has a development default; production overrides via
// GENESCREEN_* variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// APIKeyHash is a bcrypt hash accepted as an alternative credential for
	// service-to-service callers. Empty disables API key auth.
	APIKeyHash string
}

// Ledger captures the screening registry contract and transaction tuning.
type Ledger struct {
	TargetContract  string
	FinalityTimeout time.Duration
	ProofTimeout    time.Duration
}

// RedisConfig tunes the optional record snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig points at the persistence databases. Empty URLs fall back to
// in-memory stores.
type PostgresConfig struct {
	JournalURL string
	AuditURL   string
}

// KafkaConfig tunes the audit event fan-out. No brokers disables publishing.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// Config is the full process configuration.
type Config struct {
	Server   Server
	Ledger   Ledger
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// FromEnv builds the configuration from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("GENESCREEN_ADDR", ":8080"),
			JWTSigningKey: envOr("GENESCREEN_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envOr("GENESCREEN_JWT_ISSUER", "genescreen"),
			JWTAudience:   envOr("GENESCREEN_JWT_AUDIENCE", "genescreen-api"),
			APIKeyHash:    os.Getenv("GENESCREEN_API_KEY_HASH"),
		},
		Ledger: Ledger{
			TargetContract:  envOr("GENESCREEN_CONTRACT_ADDRESS", "0x0000000000000000000000000000000000000000"),
			FinalityTimeout: envDuration("GENESCREEN_FINALITY_TIMEOUT", 2*time.Minute),
			ProofTimeout:    envDuration("GENESCREEN_PROOF_TIMEOUT", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("GENESCREEN_REDIS_URL"),
			PoolSize:     envInt("GENESCREEN_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("GENESCREEN_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("GENESCREEN_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("GENESCREEN_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("GENESCREEN_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			JournalURL: os.Getenv("GENESCREEN_JOURNAL_DATABASE_URL"),
			AuditURL:   os.Getenv("GENESCREEN_AUDIT_DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:    envList("GENESCREEN_KAFKA_BROKERS"),
			AuditTopic: envOr("GENESCREEN_KAFKA_AUDIT_TOPIC", "genescreen.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
