package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TASKHUB"

// Load merges defaults, the global config file, a .env in the working
// directory, TASKHUB_* variables and finally the command-line overrides.
func Load(ov Overrides) (*Config, error) {
	cfg, err := LoadFrom(GlobalConfigPath(), ".env")
	if err != nil {
		return nil, err
	}

	cfg.Apply(ov)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom is Load with explicit file locations. Missing files are skipped.
func LoadFrom(configPath, envPath string) (*Config, error) {
	if envPath != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
		}
	}

	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("search_debounce", defaults.SearchDebounce)
	v.SetDefault("animations", defaults.Animations)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DataDir = ExpandHome(cfg.DataDir)

	return cfg, nil
}

// Apply copies non-empty overrides onto the config
func (c *Config) Apply(ov Overrides) {
	if ov.APIURL != "" {
		c.APIURL = ov.APIURL
	}
	if ov.DataDir != "" {
		c.DataDir = ExpandHome(ov.DataDir)
	}
}

// Validate checks values that would otherwise fail much later
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce cannot be negative, got %s", c.SearchDebounce)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir cannot be empty")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// TaskhubPath returns the global taskhub directory
func TaskhubPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskhub"
	}
	return filepath.Join(home, ".taskhub")
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	return filepath.Join(TaskhubPath(), "config.yaml")
}
