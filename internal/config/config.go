package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ccline/ccline/internal/quota"
	"github.com/ccline/ccline/internal/render"
)

// Config is the statusline configuration file. Only the quota segment's
// section is interpreted here; the rest of the statusline schema
// belongs to the host CLI.
type Config struct {
	Version  string         `yaml:"version,omitempty"`
	Segments SegmentsConfig `yaml:"segments"`
}

// SegmentsConfig holds per-segment sections.
type SegmentsConfig struct {
	Quota SegmentConfig `yaml:"quota"`
}

// SegmentConfig is one segment's raw section: an enable switch plus a
// loosely-typed options map handed to the typed boundary below.
type SegmentConfig struct {
	Enabled *bool          `yaml:"enabled,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// IsEnabled reports whether the segment should render. Segments are on
// by default.
func (s SegmentConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// QuotaOptions is the validated, typed form of the quota segment's
// options map. It is built once at the config boundary; the pipeline
// never re-parses raw values.
type QuotaOptions struct {
	Host          string
	Key           string
	CacheDuration time.Duration
	AuthType      string
	Separator     string

	Aliases map[quota.TrackedModel]string
	Colors  map[quota.TrackedModel]render.Color

	HistoryEnabled bool
	HistoryPath    string
}

// Defaults per the segment contract.
const (
	DefaultHost          = "http://localhost:8317"
	DefaultKey           = "nbkey"
	DefaultCacheDuration = 180 * time.Second
	DefaultAuthType      = quota.AuthTypeAll
	DefaultSeparator     = " | "
)

// DefaultQuotaOptions returns options with every knob at its default.
func DefaultQuotaOptions() *QuotaOptions {
	return &QuotaOptions{
		Host:          DefaultHost,
		Key:           DefaultKey,
		CacheDuration: DefaultCacheDuration,
		AuthType:      DefaultAuthType,
		Separator:     DefaultSeparator,
		Aliases:       make(map[quota.TrackedModel]string),
		Colors:        make(map[quota.TrackedModel]render.Color),
	}
}

// DefaultHistoryPath returns the fixed history database location under
// the user's config directory.
func DefaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "ccline", "quota_history.db"), nil
}

// Styles resolves the per-model display styles, applying overrides
// over defaults.
func (o *QuotaOptions) Styles() map[quota.TrackedModel]render.Style {
	styles := make(map[quota.TrackedModel]render.Style, 3)
	for _, model := range quota.AllTracked() {
		style := render.DefaultStyle(model)
		if alias, ok := o.Aliases[model]; ok {
			style.Alias = alias
		}
		if color, ok := o.Colors[model]; ok {
			style.Color = color
		}
		styles[model] = style
	}
	return styles
}

// Validate checks cross-field consistency after the boundary parse.
func (o *QuotaOptions) Validate() error {
	if o.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if o.CacheDuration < 0 {
		return fmt.Errorf("cache_duration must not be negative")
	}
	switch o.AuthType {
	case quota.AuthTypeAll, quota.AuthTypeAntigravity, quota.AuthTypeGeminiCLI:
	default:
		return fmt.Errorf("auth_type must be one of: all, antigravity, gemini-cli")
	}
	if o.HistoryEnabled && o.HistoryPath == "" {
		return fmt.Errorf("history_path must not be empty when history is enabled")
	}
	return nil
}
