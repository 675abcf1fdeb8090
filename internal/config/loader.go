package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// ErrConfiguration is wrapped by every error LoadConfig returns.
var ErrConfiguration = errors.New("configuration error")

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. the YAML file at path (optional; a missing file is not an error)
// 3. INITINFO_* environment variables, e.g. INITINFO_TELEGRAM_TOKEN
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, path); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// readConfigFile reads path into v, tolerating a missing file.
func readConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	slog.Debug("Configuration file loaded", "path", v.ConfigFileUsed())
	return nil
}
