package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
}

func TestLoadWithDefaults(t *testing.T) {
	setupViper(t)
	viper.Set("sender", "e-racun@iskon.hr")
	viper.Set("drive_folder", "Iskon")
	viper.Set("client_id", "id")
	viper.Set("client_secret", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "e-racun@iskon.hr", cfg.Sender)
	assert.Equal(t, 30, cfg.SinceDays)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 10, cfg.GateDay)
	assert.False(t, cfg.MetricsEnabled)
	assert.NotEmpty(t, cfg.TokenFile)
	assert.NotEmpty(t, cfg.StateFile)
}

func TestLoadOverrides(t *testing.T) {
	setupViper(t)
	viper.Set("sender", "noreply@example.com")
	viper.Set("drive_folder", "Invoices")
	viper.Set("client_id", "id")
	viper.Set("client_secret", "secret")
	viper.Set("since_days", 120)
	viper.Set("gate_day", 5)
	viper.Set("metrics_enabled", true)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.SinceDays)
	assert.Equal(t, 5, cfg.GateDay)
	assert.True(t, cfg.MetricsEnabled)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Sender:         "noreply@example.com",
		SinceDays:      30,
		DriveFolder:    "Invoices",
		ClientID:       "id",
		ClientSecret:   "secret",
		TimeoutSeconds: 30,
		GateDay:        10,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "missing sender", mutate: func(c *Config) { c.Sender = "" }, ok: false},
		{name: "missing folder", mutate: func(c *Config) { c.DriveFolder = "" }, ok: false},
		{name: "missing client", mutate: func(c *Config) { c.ClientID = "" }, ok: false},
		{name: "zero window", mutate: func(c *Config) { c.SinceDays = 0 }, ok: false},
		{name: "negative timeout", mutate: func(c *Config) { c.TimeoutSeconds = -1 }, ok: false},
		{name: "gate day out of range", mutate: func(c *Config) { c.GateDay = 0 }, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
