package config

import (
	"testing"

	"github.com/scriptink/writofest-api/internal/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "writofest.db", cfg.DatabasePath)
	assert.Equal(t, 465, cfg.EmailPort)
	assert.Equal(t, "WritoFest 2K25", cfg.EventName)
	assert.True(t, cfg.EnableCORS)

	opts, err := cfg.Registration()
	require.NoError(t, err)
	assert.Equal(t, registration.PolicyUpsert, opts.Policy)
	assert.Equal(t, registration.SchemaFull, opts.Schema)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://writofest@localhost/writofest?sslmode=require")
	t.Setenv("REGISTRATION_POLICY", "reject-on-duplicate")
	t.Setenv("REQUIRED_FIELDS", "name,email,event")
	t.Setenv("EMAIL_PORT", "587")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "postgres://writofest@localhost/writofest?sslmode=require", cfg.DatabaseURL)
	assert.Equal(t, 587, cfg.EmailPort)

	opts, err := cfg.Registration()
	require.NoError(t, err)
	assert.Equal(t, registration.PolicyRejectDuplicate, opts.Policy)
	assert.Equal(t, "custom", opts.Schema.Name)
	assert.Equal(t, []registration.Field{registration.FieldName, registration.FieldEmail, registration.FieldEvents}, opts.Schema.Required)
}

func TestLoadConfig_MaintenanceSwitch(t *testing.T) {
	t.Setenv("REGISTRATIONS_CLOSED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	opts, err := cfg.Registration()
	require.NoError(t, err)
	assert.Equal(t, registration.PolicyClosed, opts.Policy)
}

func TestLoadConfig_InvalidPolicy(t *testing.T) {
	t.Setenv("REGISTRATION_POLICY", "first-come")

	_, err := LoadConfig()
	assert.Error(t, err)
}
