package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	json "github.com/goccy/go-json"
)

// Config represents the application configuration
type Config struct {
	Athlete AthleteConfig `json:"athlete"`
	Goals   GoalsConfig   `json:"goals"`
	Streak  StreakConfig  `json:"streak"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	RestingHR int `json:"resting_hr"`
	MaxHR     int `json:"max_hr"` // estimated maximum heart rate
}

// GoalsConfig holds daily goal settings
type GoalsConfig struct {
	StepGoal    int     `json:"step_goal"`
	CalorieGoal float64 `json:"calorie_goal"`
}

// StreakConfig holds run-streak settings
type StreakConfig struct {
	FreezeResetDays int `json:"freeze_reset_days"` // cadence on which the freeze comes back
	RiskHour        int `json:"risk_hour"`         // local hour after which an unbroken streak is "at risk"
}

// Env holds environment variable overrides
type Env struct {
	DataDir string `env:"FITCORE_DATA_DIR"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 60,
			MaxHR:     185,
		},
		Goals: GoalsConfig{
			StepGoal:    10000,
			CalorieGoal: 500,
		},
		Streak: StreakConfig{
			FreezeResetDays: 30,
			RiskHour:        20,
		},
	}
}

// Load reads the configuration from <data dir>/config.json
func Load() (*Config, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Athlete.RestingHR == 0 {
		c.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if c.Athlete.MaxHR == 0 {
		c.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if c.Goals.StepGoal == 0 {
		c.Goals.StepGoal = defaults.Goals.StepGoal
	}
	if c.Goals.CalorieGoal == 0 {
		c.Goals.CalorieGoal = defaults.Goals.CalorieGoal
	}
	if c.Streak.FreezeResetDays == 0 {
		c.Streak.FreezeResetDays = defaults.Streak.FreezeResetDays
	}
	if c.Streak.RiskHour == 0 {
		c.Streak.RiskHour = defaults.Streak.RiskHour
	}
}

// Validate checks the configuration for nonsensical values
func (c *Config) Validate() error {
	if c.Athlete.MaxHR <= c.Athlete.RestingHR {
		return fmt.Errorf("max_hr (%d) must be greater than resting_hr (%d)",
			c.Athlete.MaxHR, c.Athlete.RestingHR)
	}
	if c.Goals.StepGoal < 0 {
		return errors.New("step_goal must not be negative")
	}
	if c.Streak.RiskHour < 0 || c.Streak.RiskHour > 23 {
		return fmt.Errorf("risk_hour (%d) must be between 0 and 23", c.Streak.RiskHour)
	}
	return nil
}

// CreateExample writes a default config file for the user to edit
func CreateExample() error {
	dir, err := DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// DataDir returns the directory holding the config file and database.
// Defaults to ~/.fitcore, overridable with FITCORE_DATA_DIR.
func DataDir() (string, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return "", fmt.Errorf("parsing environment: %w", err)
	}
	if e.DataDir != "" {
		return e.DataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fitcore"), nil
}
