package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultWarningThreshold uint64 = 1024 * 1024
	DefaultShowSuggestions         = true
	DefaultGenerateReport          = false
)

// ErrConfigParse is returned by ParseConfig when the options payload is not
// a valid configuration object.
var ErrConfigParse = errors.New("invalid analyzer options")

// Config controls how an Analyzer classifies and reports artifacts.
// GenerateReport is accepted for compatibility but not acted on.
type Config struct {
	WarningThreshold uint64 `json:"warning_threshold"`
	ShowSuggestions  bool   `json:"show_suggestions"`
	GenerateReport   bool   `json:"generate_report"`
}

func DefaultConfig() Config {
	return Config{
		WarningThreshold: DefaultWarningThreshold,
		ShowSuggestions:  DefaultShowSuggestions,
		GenerateReport:   DefaultGenerateReport,
	}
}

// ParseConfig decodes a strict JSON options payload. Keys are matched
// exactly, unknown keys are ignored and missing keys keep their defaults.
// An empty payload yields the defaults. On failure the defaults are returned
// alongside an error wrapping ErrConfigParse.
func ParseConfig(options string) (Config, error) {
	if strings.TrimSpace(options) == "" {
		return DefaultConfig(), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(options), &fields); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %s", ErrConfigParse, err)
	}
	if fields == nil {
		return DefaultConfig(), fmt.Errorf("%w: options must be an object", ErrConfigParse)
	}

	cfg := DefaultConfig()
	for key, dst := range map[string]interface{}{
		"warning_threshold": &cfg.WarningThreshold,
		"show_suggestions":  &cfg.ShowSuggestions,
		"generate_report":   &cfg.GenerateReport,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return DefaultConfig(), fmt.Errorf("%w: %s must not be null", ErrConfigParse, key)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return DefaultConfig(), fmt.Errorf("%w: %s: %s", ErrConfigParse, key, err)
		}
	}
	return cfg, nil
}
