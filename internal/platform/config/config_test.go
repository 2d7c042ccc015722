package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agora/internal/registration/models"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Registration.SessionTTL)
	assert.Equal(t, "/login", cfg.Registration.SignInURL)
	assert.Equal(t, 3*time.Second, cfg.Registration.RedirectDelay)
	assert.Empty(t, cfg.Postgres.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.UsesDefaultSigningKey())
	assert.Equal(t, DefaultJWTSigningKey, cfg.SessionSecret())

	flows := cfg.Flows()
	require.Len(t, flows, 2)
	assert.Equal(t, models.RoleStudent, flows[0].Role)
	assert.Equal(t, 8, flows[0].MinPasswordLength)
	assert.Equal(t, models.RoleProvider, flows[1].Role)
	assert.Equal(t, 6, flows[1].MinPasswordLength)
	assert.Equal(t, 18, flows[1].MinimumAge)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("AGORA_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STUDENT_MIN_PASSWORD_LENGTH", "12")
	t.Setenv("REGISTRATION_SESSION_TTL", "2h")
	t.Setenv("JWT_SIGNING_KEY", "real-key")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 12, cfg.Flows()[0].MinPasswordLength)
	assert.Equal(t, 2*time.Hour, cfg.Registration.SessionTTL)
	assert.False(t, cfg.UsesDefaultSigningKey())
	assert.Equal(t, "real-key", cfg.SessionSecret())

	t.Setenv("REGISTRATION_SESSION_SECRET", "draft-secret")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "draft-secret", cfg.SessionSecret())
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("PROVIDER_MIN_PASSWORD_LENGTH", "0")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("PROVIDER_MIN_PASSWORD_LENGTH", "six")
	_, err = FromEnv()
	assert.Error(t, err)
}
