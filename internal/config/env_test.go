package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/ ")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	env, err := LoadEnv("does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, "https://api.example.com", env.APIBaseURL)
	assert.Equal(t, "memory", env.SessionBackend)
	assert.Equal(t, 15*time.Second, env.APITimeout)
	assert.Equal(t, 60*time.Second, env.OTPResendCooldown)
}

func TestLoadEnvRejectsMySQLWithoutDSN(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("SESSION_BACKEND", "mysql")

	_, err := LoadEnv("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MYSQL_DSN")
}

func TestLoadEnvShortSecret(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("SESSION_SECRET", "short")

	_, err := LoadEnv("does-not-exist.env")
	require.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	env := Env{CORSAllowedOrigins: " http://a.test, ,http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, env.AllowedOrigins())
}
