package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the static configuration surface of the pipeline. Everything here
// comes from the config file (or RACUNI_* environment overrides); nothing is
// computed at runtime.
type Config struct {
	// Sender is the invoice sender address to match, e.g. "e-racun@iskon.hr".
	Sender string

	// SinceDays is the trailing search window in days.
	SinceDays int

	// DriveFolder is the destination folder name in Drive.
	DriveFolder string

	// ClientID and ClientSecret identify the OAuth client.
	ClientID     string
	ClientSecret string

	// TokenFile is where the OAuth token pair is persisted.
	TokenFile string

	// StateFile is where the processed-set is persisted.
	StateFile string

	// TimeoutSeconds bounds each network call.
	TimeoutSeconds int

	// GateDay is the working day of the month the gate fires on.
	GateDay int

	// MetricsEnabled toggles the OpenTelemetry run metrics.
	MetricsEnabled bool
}

// SetDefaults registers the default values on viper. Called before the config
// file is read so the file only has to name what differs.
func SetDefaults() {
	viper.SetDefault("since_days", 30)
	viper.SetDefault("timeout_seconds", 30)
	viper.SetDefault("gate_day", 10)
	viper.SetDefault("metrics_enabled", false)
	viper.SetDefault("token_file", defaultPath(configDir, "token.json"))
	viper.SetDefault("state_file", defaultPath(stateDir, "processed.json"))
}

// Load builds the configuration from viper and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Sender:         viper.GetString("sender"),
		SinceDays:      viper.GetInt("since_days"),
		DriveFolder:    viper.GetString("drive_folder"),
		ClientID:       viper.GetString("client_id"),
		ClientSecret:   viper.GetString("client_secret"),
		TokenFile:      viper.GetString("token_file"),
		StateFile:      viper.GetString("state_file"),
		TimeoutSeconds: viper.GetInt("timeout_seconds"),
		GateDay:        viper.GetInt("gate_day"),
		MetricsEnabled: viper.GetBool("metrics_enabled"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for the mistakes that would
// otherwise only surface mid-run.
func (c *Config) Validate() error {
	if c.Sender == "" {
		return fmt.Errorf("sender is required")
	}
	if c.DriveFolder == "" {
		return fmt.Errorf("drive_folder is required")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("client_id and client_secret are required")
	}
	if c.SinceDays <= 0 {
		return fmt.Errorf("since_days must be positive, got %d", c.SinceDays)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.GateDay < 1 || c.GateDay > 23 {
		return fmt.Errorf("gate_day must be between 1 and 23, got %d", c.GateDay)
	}
	return nil
}

type baseDir int

const (
	configDir baseDir = iota
	stateDir
)

// defaultPath resolves a file under the user's config or state directory,
// falling back to the working directory when the home cannot be determined.
func defaultPath(base baseDir, name string) string {
	switch base {
	case configDir:
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, "racuni", name)
		}
	case stateDir:
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "state", "racuni", name)
		}
	}
	return name
}
