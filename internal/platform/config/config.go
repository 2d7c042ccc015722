// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"agora/internal/registration/models"
)

// DefaultJWTSigningKey is only suitable for local development.
const DefaultJWTSigningKey = "dev-secret-key-change-in-production"

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string `env:"AGORA_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"agora"`

	Registration Registration
	Postgres     PostgresConfig
	Redis        RedisConfig
	S3           S3Config
	Kafka        KafkaConfig
}

// Registration holds the wizard and flow parameters.
type Registration struct {
	SessionTTL                time.Duration `env:"REGISTRATION_SESSION_TTL" envDefault:"24h"`
	SessionSecret             string        `env:"REGISTRATION_SESSION_SECRET"`
	SignInURL                 string        `env:"SIGN_IN_URL" envDefault:"/login"`
	RedirectDelay             time.Duration `env:"REDIRECT_DELAY" envDefault:"3s"`
	StudentMinPasswordLength  int           `env:"STUDENT_MIN_PASSWORD_LENGTH" envDefault:"8"`
	ProviderMinPasswordLength int           `env:"PROVIDER_MIN_PASSWORD_LENGTH" envDefault:"6"`
	MinimumAge                int           `env:"MINIMUM_AGE" envDefault:"18"`
	BcryptCost                int           `env:"BCRYPT_COST" envDefault:"10"`
	AuditQueueSize            int           `env:"AUDIT_QUEUE_SIZE" envDefault:"1024"`
	StartLimit                int           `env:"REGISTRATION_START_LIMIT" envDefault:"20"`
	StartLimitWindow          time.Duration `env:"REGISTRATION_START_LIMIT_WINDOW" envDefault:"1h"`
}

// PostgresConfig selects the Identity Issuer and Profile Store backend.
// An empty URL keeps both in memory.
type PostgresConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxConns        int32         `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
}

// RedisConfig selects the draft session backend. An empty URL keeps drafts in memory.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// S3Config selects the blob backend. An empty bucket keeps blobs in memory.
type S3Config struct {
	Endpoint     string `env:"S3_ENDPOINT"`
	Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	Bucket       string `env:"S3_BUCKET"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE"`
}

// KafkaConfig selects the audit sink. No brokers keeps audit events in memory.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"registration-audit"`
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (s Server) validate() error {
	r := s.Registration
	switch {
	case r.SessionTTL <= 0:
		return fmt.Errorf("REGISTRATION_SESSION_TTL must be positive")
	case r.StudentMinPasswordLength < 1 || r.ProviderMinPasswordLength < 1:
		return fmt.Errorf("minimum password lengths must be at least 1")
	case r.MinimumAge < 0:
		return fmt.Errorf("MINIMUM_AGE must not be negative")
	case r.RedirectDelay < 0:
		return fmt.Errorf("REDIRECT_DELAY must not be negative")
	case r.StartLimit > 0 && r.StartLimitWindow <= 0:
		return fmt.Errorf("REGISTRATION_START_LIMIT_WINDOW must be positive")
	}
	return nil
}

// Flows returns the two registration flows built from the configuration.
func (s Server) Flows() []models.Flow {
	r := s.Registration
	return []models.Flow{
		{
			Name:              models.FlowStudent,
			Role:              models.RoleStudent,
			MinPasswordLength: r.StudentMinPasswordLength,
			MinimumAge:        r.MinimumAge,
			SignInURL:         r.SignInURL,
			RedirectDelay:     r.RedirectDelay,
		},
		{
			Name:              models.FlowProvider,
			Role:              models.RoleProvider,
			MinPasswordLength: r.ProviderMinPasswordLength,
			MinimumAge:        r.MinimumAge,
			SignInURL:         r.SignInURL,
			RedirectDelay:     r.RedirectDelay,
		},
	}
}

// SessionSecret is the secret stored drafts are sealed with. It falls back
// to the JWT signing key; keys derived from it are bound to their own label.
func (s Server) SessionSecret() string {
	if s.Registration.SessionSecret != "" {
		return s.Registration.SessionSecret
	}
	return s.JWTSigningKey
}

// UsesDefaultSigningKey reports whether JWT_SIGNING_KEY was left unset.
func (s Server) UsesDefaultSigningKey() bool {
	return s.JWTSigningKey == DefaultJWTSigningKey
}
