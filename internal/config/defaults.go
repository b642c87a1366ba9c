package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the public TaskHub deployment
const DefaultAPIURL = "https://taskhub.linerds.us/api"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		DataDir:        TaskhubPath(),
		Timeout:        30 * time.Second,
		SearchDebounce: 300 * time.Millisecond,
		Animations:     true,
	}
}

const header = `# taskhub configuration
# Every key can also be set with a TASKHUB_ prefixed environment variable,
# e.g. TASKHUB_API_URL=http://localhost:5150/api

`

// WriteDefault writes the default configuration to path, creating its directory
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
