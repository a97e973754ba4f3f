package config

import (
	"fmt"
	"time"

	"github.com/ccline/ccline/internal/errors"
	"github.com/ccline/ccline/internal/quota"
	"github.com/ccline/ccline/internal/render"
)

// QuotaOptionsFrom converts the loosely-typed options map into typed
// options. Missing keys take defaults; present-but-malformed values
// are rejected rather than silently ignored, so a typo in the config
// surfaces at load time instead of quietly disabling an override.
func QuotaOptionsFrom(options map[string]any) (*QuotaOptions, error) {
	opts := DefaultQuotaOptions()

	if v, ok := options["host"]; ok {
		s, err := stringOption("host", v)
		if err != nil {
			return nil, err
		}
		opts.Host = s
	}
	if v, ok := options["key"]; ok {
		s, err := stringOption("key", v)
		if err != nil {
			return nil, err
		}
		opts.Key = s
	}
	if v, ok := options["cache_duration"]; ok {
		secs, err := intOption("cache_duration", v)
		if err != nil {
			return nil, err
		}
		if secs < 0 {
			return nil, &errors.ErrOptionInvalid{Key: "cache_duration", Reason: "must be a non-negative integer"}
		}
		opts.CacheDuration = time.Duration(secs) * time.Second
	}
	if v, ok := options["auth_type"]; ok {
		s, err := stringOption("auth_type", v)
		if err != nil {
			return nil, err
		}
		opts.AuthType = s
	}
	if v, ok := options["separator"]; ok {
		s, err := stringOption("separator", v)
		if err != nil {
			return nil, err
		}
		opts.Separator = s
	}
	if v, ok := options["history_enabled"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, &errors.ErrOptionInvalid{Key: "history_enabled", Reason: fmt.Sprintf("expected bool, got %T", v)}
		}
		opts.HistoryEnabled = b
	}
	if v, ok := options["history_path"]; ok {
		s, err := stringOption("history_path", v)
		if err != nil {
			return nil, err
		}
		opts.HistoryPath = s
	}
	if opts.HistoryEnabled && opts.HistoryPath == "" {
		path, err := DefaultHistoryPath()
		if err != nil {
			return nil, &errors.ErrOptionInvalid{Key: "history_path", Reason: "no home directory to derive a default from"}
		}
		opts.HistoryPath = path
	}

	for _, model := range quota.AllTracked() {
		if v, ok := options[model.AliasKey()]; ok {
			s, err := stringOption(model.AliasKey(), v)
			if err != nil {
				return nil, err
			}
			if s == "" {
				return nil, &errors.ErrOptionInvalid{Key: model.AliasKey(), Reason: "alias must not be empty"}
			}
			opts.Aliases[model] = s
		}
		if v, ok := options[model.ColorKey()]; ok {
			color, err := render.ParseColor(v)
			if err != nil {
				return nil, &errors.ErrOptionInvalid{Key: model.ColorKey(), Reason: err.Error()}
			}
			opts.Colors[model] = color
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, &errors.ErrConfigValidation{Err: err}
	}
	return opts, nil
}

func stringOption(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &errors.ErrOptionInvalid{Key: key, Reason: fmt.Sprintf("expected string, got %T", value)}
	}
	return s, nil
}

func intOption(key string, value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, &errors.ErrOptionInvalid{Key: key, Reason: fmt.Sprintf("expected integer, got %v", v)}
		}
		return n, nil
	}
	return 0, &errors.ErrOptionInvalid{Key: key, Reason: fmt.Sprintf("expected integer, got %T", value)}
}
