package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_CORS_ORIGINS", "")
	t.Setenv("PAYROLL_ALLOW_NEGATIVE_NET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "INR", cfg.Payroll.DefaultCurrency)
	assert.True(t, cfg.Payroll.AllowNegativeNet)
	assert.Equal(t, time.Hour, cfg.Payroll.ReconcileInterval)
	assert.Equal(t, 3, cfg.SMTP.MaxRetries)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("PAYROLL_ALLOW_NEGATIVE_NET", "false")
	t.Setenv("APP_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.False(t, cfg.Payroll.AllowNegativeNet)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.App.CORSOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_RequiresSecrets(t *testing.T) {
	cfg := &Config{
		JWT:     JWTConfig{Secret: "x", AccessExpiration: "1h"},
		Storage: StorageConfig{Type: "local"},
		SMTP:    SMTPConfig{MaxRetries: 1},
		Payroll: PayrollConfig{ReconcileInterval: time.Minute},
	}
	assert.EqualError(t, cfg.Validate(), "DB_PASSWORD is required")

	cfg.Database.Password = "pw"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Type = "s3"
	assert.Error(t, cfg.Validate())
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5433, Name: "db", SSLMode: "disable"}}
	assert.Equal(t, "postgres://u:p@h:5433/db?sslmode=disable", cfg.DatabaseURL())
}

func TestLogLevel(t *testing.T) {
	cfg := &Config{App: AppConfig{LogLevel: "DEBUG"}}
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	cfg.App.LogLevel = "bogus"
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}
