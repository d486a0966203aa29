// Package config loads and manages the shopadmin configuration file stored at
// ~/.shopadmin/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	validator "github.com/asaskevich/govalidator"
	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory under the user's home for CLI state.
const DefaultConfigDir = ".shopadmin"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// DefaultCredentialsFile holds the admin token for the file token store.
const DefaultCredentialsFile = "credentials.yaml"

// DefaultAPIURL is the storefront API base URL used when none is configured.
const DefaultAPIURL = "http://localhost:3001/api"

// DefaultTimeout bounds every HTTP request.
const DefaultTimeout = 30 * time.Second

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

// Config represents the contents of ~/.shopadmin/config.yaml.
type Config struct {
	APIURL          string        `yaml:"api_url"`
	Timeout         time.Duration `yaml:"timeout"`
	TokenStore      string        `yaml:"token_store"`
	TokenFile       string        `yaml:"token_file,omitempty"`
	RedisAddr       string        `yaml:"redis_addr,omitempty"`
	CacheStaleAfter time.Duration `yaml:"cache_stale_after,omitempty"`
}

// Dir returns the path to the config directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// Load reads the config from ~/.shopadmin/config.yaml.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, filling unset keys with defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to ~/.shopadmin/config.yaml.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if !validator.IsURL(c.APIURL) || !validator.IsRequestURL(c.APIURL) {
		return fmt.Errorf("api_url %q is not a valid URL", c.APIURL)
	}
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreMemory:
	case TokenStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("token_store %q requires redis_addr", c.TokenStore)
		}
	default:
		return fmt.Errorf("unknown token_store %q (expected file, redis, or memory)", c.TokenStore)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.CacheStaleAfter < 0 {
		return fmt.Errorf("cache_stale_after must not be negative")
	}
	return nil
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.TokenStore == "" {
		c.TokenStore = TokenStoreFile
	}
	if c.TokenStore == TokenStoreFile && c.TokenFile == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.TokenFile = filepath.Join(dir, DefaultCredentialsFile)
	}
	return nil
}
