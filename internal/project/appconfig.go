package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/piwi3910/StoneQuote/internal/model"
)

// maxRecentContracts caps the recent-contracts list.
const maxRecentContracts = 10

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.stonequote/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stonequote")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	// Ensure RecentContracts is never nil
	if config.RecentContracts == nil {
		config.RecentContracts = []string{}
	}
	return config, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDatabaseURL         = "STONEQUOTE_DATABASE_URL"
	EnvInventoryPath       = "STONEQUOTE_INVENTORY_PATH"
	EnvListenAddr          = "STONEQUOTE_LISTEN_ADDR"
	EnvLogLevel            = "STONEQUOTE_LOG_LEVEL"
	EnvLogFormat           = "STONEQUOTE_LOG_FORMAT"
	EnvLogOutput           = "STONEQUOTE_LOG_OUTPUT"
	EnvCurrency            = "STONEQUOTE_CURRENCY"
	EnvMandatoryPercentage = "STONEQUOTE_MANDATORY_PERCENTAGE"
	EnvSearchDebounceMs    = "STONEQUOTE_SEARCH_DEBOUNCE_MS"
)

// ApplyEnv overlays STONEQUOTE_* environment variables on cfg. When envFile
// exists it is loaded first; variables already set in the environment win
// over the file. DATABASE_URL is honoured when STONEQUOTE_DATABASE_URL is unset.
func ApplyEnv(cfg *model.AppConfig, envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	stringVars := map[string]*string{
		EnvDatabaseURL:   &cfg.DatabaseURL,
		EnvInventoryPath: &cfg.InventoryPath,
		EnvListenAddr:    &cfg.ListenAddr,
		EnvLogLevel:      &cfg.LogLevel,
		EnvLogFormat:     &cfg.LogFormat,
		EnvLogOutput:     &cfg.LogOutput,
		EnvCurrency:      &cfg.Currency,
	}
	for key, dst := range stringVars {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if v := os.Getenv(EnvMandatoryPercentage); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil || pct < 0 || pct > 100 {
			return fmt.Errorf("invalid %s %q: must be a number between 0 and 100", EnvMandatoryPercentage, v)
		}
		cfg.DefaultMandatoryPercentage = pct
	}
	if v := os.Getenv(EnvSearchDebounceMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return fmt.Errorf("invalid %s %q: must be a non-negative integer", EnvSearchDebounceMs, v)
		}
		cfg.SearchDebounceMs = ms
	}
	return nil
}

// AddRecentContract moves path to the front of the recent-contracts list.
func AddRecentContract(cfg *model.AppConfig, path string) {
	recent := []string{path}
	for _, p := range cfg.RecentContracts {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentContracts {
		recent = recent[:maxRecentContracts]
	}
	cfg.RecentContracts = recent
}
