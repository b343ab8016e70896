package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// MaxLogEntries caps the calorie log; additions beyond it are rejected
	// with a capacity error rather than evicting old entries.
	MaxLogEntries int `json:"max_log_entries"`

	// MaxWaterPerDay caps a single day's water bucket.
	MaxWaterPerDay int `json:"max_water_per_day"`

	// OpenAIAPIKey authorizes the calorie estimation collaborator.
	// The OPENAI_API_KEY environment variable takes precedence.
	OpenAIAPIKey string `json:"openai_api_key,omitempty"`

	// OpenAIModel selects the vision model used for estimation.
	OpenAIModel string `json:"openai_model,omitempty"`

	// RemoteDSN is the Postgres connection string for the profile-seed
	// collaborator. Empty disables remote persistence entirely.
	// The REMOTE_DSN environment variable takes precedence.
	RemoteDSN string `json:"remote_dsn,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default. Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are ignored at registration time.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes disables whole tool families by prefix, e.g. "water"
	// disables every water_* tool.
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxLogEntries:  100,
		MaxWaterPerDay: 50,
		OpenAIModel:    "gpt-4o",
	}
}

// Load loads configuration from baseDir/config.json, layered over defaults
// and environment overrides. Returns default config if the file doesn't
// exist. The baseDir parameter allows tests to use t.TempDir() instead of
// ~/.caloriesnap.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	applyEnv(merged)
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv applies environment variable overrides for collaborator secrets.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("REMOTE_DSN"); v != "" {
		cfg.RemoteDSN = v
	}
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.MaxLogEntries = overlay.MaxLogEntries
	if result.MaxLogEntries == 0 {
		result.MaxLogEntries = base.MaxLogEntries
	}

	result.MaxWaterPerDay = overlay.MaxWaterPerDay
	if result.MaxWaterPerDay == 0 {
		result.MaxWaterPerDay = base.MaxWaterPerDay
	}

	result.OpenAIAPIKey = overlay.OpenAIAPIKey
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = base.OpenAIAPIKey
	}

	result.OpenAIModel = overlay.OpenAIModel
	if result.OpenAIModel == "" {
		result.OpenAIModel = base.OpenAIModel
	}

	result.RemoteDSN = overlay.RemoteDSN
	if result.RemoteDSN == "" {
		result.RemoteDSN = base.RemoteDSN
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
