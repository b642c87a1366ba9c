package config

import "time"

// Config represents the taskhub client configuration
type Config struct {
	// Base URL of the TaskHub API, including the /api prefix
	APIURL string `yaml:"api_url" mapstructure:"api_url"`

	// Directory holding the local database (session, cookies)
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// Per-request timeout
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Delay between the last keystroke and a search request in the explorer
	SearchDebounce time.Duration `yaml:"search_debounce" mapstructure:"search_debounce"`

	// Shimmer and spinner effects in the TUI
	Animations bool `yaml:"animations" mapstructure:"animations"`
}

// Overrides are values given on the command line. Empty fields are ignored.
type Overrides struct {
	APIURL  string
	DataDir string
}
