// Package config handles configuration loading and validation for shotsort.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"shotsort/internal/audit"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidTOML     ConfigErrorType = "INVALID_TOML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidTOML:
		return fmt.Sprintf("invalid TOML in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Audit controls the machine-readable audit trail.
type Audit struct {
	Enabled      bool   `toml:"enabled"`
	LogDirectory string `toml:"log_directory"`
	RotationSize int64  `toml:"rotation_size_bytes"`
}

// Watch controls watch mode behavior.
type Watch struct {
	DebounceSeconds   int      `toml:"debounce_seconds"`
	StableThresholdMs int      `toml:"stable_threshold_ms"`
	IgnorePatterns    []string `toml:"ignore_patterns"`
}

// Output controls CLI output behavior.
type Output struct {
	Verbose bool `toml:"verbose"`
	Quiet   bool `toml:"quiet"`
}

// Lock controls the per-directory batch lock.
type Lock struct {
	Enabled bool `toml:"enabled"`
}

// Configuration holds all settings for shotsort.
type Configuration struct {
	Extensions []string `toml:"extensions"` // screenshot extensions accepted when scanning
	Audit      Audit    `toml:"audit"`
	Watch      Watch    `toml:"watch"`
	Output     Output   `toml:"output"`
	Lock       Lock     `toml:"lock"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Configuration {
	auditDefaults := audit.DefaultConfig()
	return &Configuration{
		Extensions: []string{".png", ".jpg", ".jpeg", ".bmp", ".tga"},
		Audit: Audit{
			Enabled:      false,
			LogDirectory: auditDefaults.LogDirectory,
			RotationSize: auditDefaults.RotationSize,
		},
		Watch: Watch{
			DebounceSeconds:   2,
			StableThresholdMs: 1000,
			IgnorePatterns:    []string{"*.tmp", "*.part", "*.partial", ".~*"},
		},
		Lock: Lock{Enabled: true},
	}
}

// AuditConfig converts the audit section into the audit package's config.
func (c *Configuration) AuditConfig() audit.Config {
	return audit.Config{
		LogDirectory: c.Audit.LogDirectory,
		RotationSize: c.Audit.RotationSize,
	}
}

// HasExtension reports whether name ends in one of the configured
// screenshot extensions (case-insensitive).
func (c *Configuration) HasExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range c.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Validate checks that the configuration is usable.
func (c *Configuration) Validate() error {
	if len(c.Extensions) == 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "extensions must contain at least one entry",
		}
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("extensions[%d] %q must start with a dot", i, ext),
			}
		}
	}

	if c.Watch.DebounceSeconds < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "watch.debounce_seconds cannot be negative",
		}
	}
	if c.Watch.StableThresholdMs < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "watch.stable_threshold_ms cannot be negative",
		}
	}

	if c.Audit.Enabled && c.Audit.LogDirectory == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "audit.log_directory is required when audit is enabled",
		}
	}
	if c.Audit.RotationSize < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "audit.rotation_size_bytes cannot be negative",
		}
	}

	return nil
}

// applyDefaults fills zero values with defaults after decoding a partial file.
func (c *Configuration) applyDefaults() {
	defaults := Default()

	if len(c.Extensions) == 0 {
		c.Extensions = defaults.Extensions
	}
	if c.Audit.LogDirectory == "" {
		c.Audit.LogDirectory = defaults.Audit.LogDirectory
	}
	if c.Audit.RotationSize == 0 {
		c.Audit.RotationSize = defaults.Audit.RotationSize
	}
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = defaults.Watch.DebounceSeconds
	}
	if c.Watch.StableThresholdMs == 0 {
		c.Watch.StableThresholdMs = defaults.Watch.StableThresholdMs
	}
	if len(c.Watch.IgnorePatterns) == 0 {
		c.Watch.IgnorePatterns = defaults.Watch.IgnorePatterns
	}
}

// Load reads and parses a configuration file from the given path. An empty
// path returns the defaults.
func Load(filePath string) (*Configuration, error) {
	if filePath == "" {
		cfg := Default()
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	// Lock defaults to enabled; a decoded file may switch it off.
	config := Configuration{Lock: Lock{Enabled: true}}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidTOML,
			Message: err.Error(),
		}
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
