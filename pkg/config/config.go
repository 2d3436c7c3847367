package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/openlabel"
	ConfigFileName    = "openlabel.yml"
)

// Config holds all openlabel configuration settings
type Config struct {
	// BindAddress is the address the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server port
	Port int `yaml:"port" json:"port"`

	// LockTimeoutMs bounds how long a save waits for a name-uniqueness
	// advisory lock before treating the name as taken
	LockTimeoutMs int `yaml:"lock_timeout_ms" json:"lock_timeout_ms"`

	// EditLockTTLSeconds is how long an editor-session lock on a data item
	// stays live without being refreshed
	EditLockTTLSeconds int `yaml:"edit_lock_ttl_seconds" json:"edit_lock_ttl_seconds"`

	// ModelEndpoint is the URL of the object-detection model service
	ModelEndpoint string `yaml:"model_endpoint" json:"model_endpoint"`

	// EvaluationDir is where metrics export files are written
	EvaluationDir string `yaml:"evaluation_dir" json:"evaluation_dir"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress:        "0.0.0.0",
		Port:               8000,
		LockTimeoutMs:      1000,
		EditLockTTLSeconds: 300,
		EvaluationDir:      "/var/lib/openlabel/evaluation",
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("OPENLABEL_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "lock_timeout_ms",
		"edit_lock_ttl_seconds", "model_endpoint", "evaluation_dir",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.LockTimeoutMs != 0 {
		c.LockTimeoutMs = file.LockTimeoutMs
		c.sources["lock_timeout_ms"] = "file"
	}
	if file.EditLockTTLSeconds != 0 {
		c.EditLockTTLSeconds = file.EditLockTTLSeconds
		c.sources["edit_lock_ttl_seconds"] = "file"
	}
	if file.ModelEndpoint != "" {
		c.ModelEndpoint = file.ModelEndpoint
		c.sources["model_endpoint"] = "file"
	}
	if file.EvaluationDir != "" {
		c.EvaluationDir = file.EvaluationDir
		c.sources["evaluation_dir"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("OPENLABEL_LOCK_TIMEOUT_MS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.LockTimeoutMs = i
			c.sources["lock_timeout_ms"] = "environment"
		}
	}
	if val := os.Getenv("OPENLABEL_EDIT_LOCK_TTL_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.EditLockTTLSeconds = i
			c.sources["edit_lock_ttl_seconds"] = "environment"
		}
	}
	if val := os.Getenv("OPENLABEL_MODEL_ENDPOINT"); val != "" {
		c.ModelEndpoint = val
		c.sources["model_endpoint"] = "environment"
	}
	if val := os.Getenv("OPENLABEL_EVALUATION_DIR"); val != "" {
		c.EvaluationDir = val
		c.sources["evaluation_dir"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// LockTimeout returns the advisory lock timeout as a duration
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

// EditLockTTL returns the editor-session lock TTL as a duration
func (c *Config) EditLockTTL() time.Duration {
	return time.Duration(c.EditLockTTLSeconds) * time.Second
}
