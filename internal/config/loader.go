package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/ccline/ccline/internal/errors"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading
type Loader struct {
	path   string
	mu     sync.RWMutex
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the configuration from the file
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.ErrConfigNotFound{Path: l.path}
		}
		return nil, &errors.ErrFileRead{Path: l.path, Err: err}
	}

	content = substituteEnvVars(content)
	config, err := Parse(content)
	if err != nil {
		return nil, err
	}

	l.config = config
	return config, nil
}

// Get returns the most recently loaded configuration
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Path returns the configuration file path
func (l *Loader) Path() string {
	return l.path
}

// Parse parses configuration from a byte slice
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &errors.ErrConfigParse{Err: err}
	}
	return &config, nil
}

// DefaultConfigPath returns the config file location: the
// CCLINE_CONFIG_PATH environment variable when set, otherwise the
// fixed path under the user's config directory.
func DefaultConfigPath() string {
	if path := os.Getenv("CCLINE_CONFIG_PATH"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".claude", "ccline", "config.yaml")
}

// LoadQuotaOptions loads the config file at path and produces the
// quota segment's typed options. A missing config file yields
// defaults; a present but malformed one is an error.
func LoadQuotaOptions(path string) (*QuotaOptions, bool, error) {
	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		var notFound *errors.ErrConfigNotFound
		if stderrors.As(err, &notFound) {
			return DefaultQuotaOptions(), true, nil
		}
		return nil, false, err
	}

	opts, err := QuotaOptionsFrom(cfg.Segments.Quota.Options)
	if err != nil {
		return nil, false, err
	}
	return opts, cfg.Segments.Quota.IsEnabled(), nil
}

func substituteEnvVars(content []byte) []byte {
	return []byte(os.ExpandEnv(string(content)))
}
