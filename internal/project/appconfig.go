package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// Environment variables overriding the config file.
const (
	EnvWastePct  = "SITETAKEOFF_WASTE_PCT"
	EnvSkill     = "SITETAKEOFF_SKILL"
	EnvBudget    = "SITETAKEOFF_BUDGET"
	EnvOutputDir = "SITETAKEOFF_OUTPUT_DIR"
	EnvAddr      = "SITETAKEOFF_ADDR"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.sitetakeoff/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".sitetakeoff")
}

// SaveAppConfig persists an AppConfig to the given path as TOML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(config); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// LoadAppConfig reads an AppConfig from the given path. Keys missing from
// the file keep their defaults. If the file does not exist, it returns
// DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// Ensure RecentFiles is never nil
	if config.RecentFiles == nil {
		config.RecentFiles = []string{}
	}
	return config, nil
}

// LoadDotEnv loads variables from a .env file into the process environment
// without replacing variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values with the SITETAKEOFF_* environment
// variables. Values that cannot be used are skipped and reported.
func ApplyEnv(config *model.AppConfig) []string {
	var warnings []string

	if v, ok := os.LookupEnv(EnvWastePct); ok {
		pct, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || pct < 0 {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a waste percentage", EnvWastePct, v))
		} else {
			config.DefaultWastePct = pct
		}
	}
	if v, ok := os.LookupEnv(EnvSkill); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "diy":
			config.DefaultSkill = model.SkillDIY
		case "pro":
			config.DefaultSkill = model.SkillPro
		default:
			warnings = append(warnings, fmt.Sprintf("%s=%q is not DIY or Pro", EnvSkill, v))
		}
	}
	if v, ok := os.LookupEnv(EnvBudget); ok {
		if strings.TrimSpace(v) == "" {
			warnings = append(warnings, fmt.Sprintf("%s is empty", EnvBudget))
		} else {
			config.DefaultBudget = model.TierSpec{Budget: model.BudgetTier(v)}.Normalize().Budget
		}
	}
	if v, ok := os.LookupEnv(EnvOutputDir); ok {
		config.OutputDir = v
	}
	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		config.ServerAddr = v
	}
	return warnings
}

// LoadSettings builds the effective app configuration: the config file at
// path, then the .env file at envPath, then the process environment.
func LoadSettings(path, envPath string) (model.AppConfig, []string, error) {
	config, err := LoadAppConfig(path)
	if err != nil {
		return config, nil, err
	}
	if envPath != "" {
		if err := LoadDotEnv(envPath); err != nil {
			return config, nil, err
		}
	}
	return config, ApplyEnv(&config), nil
}
