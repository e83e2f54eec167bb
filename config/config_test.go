package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromDiscreteDBVars(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "fit")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "fittrack")
	t.Setenv("JWT_TTL_HOURS", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=db user=fit password=pw dbname=fittrack port=5432 sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoad_RequiresSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/fittrack")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestNewLogger_AddsServiceField(t *testing.T) {
	log := NewLogger("fittrack", "debug")
	assert.Equal(t, "debug", log.GetLevel().String())
	assert.Equal(t, "info", NewLogger("x", "nonsense").GetLevel().String())
}

// chdirTemp runs the test outside the repo so no stray .env is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
