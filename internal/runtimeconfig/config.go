package runtimeconfig

import (
	"fmt"
	"strings"
	"time"

	"errors"
)

// ErrSchedulingFeatureRequiresVersioning ensures scheduling stays behind the
// versioning flag.
var ErrSchedulingFeatureRequiresVersioning = errors.New("catalog config: scheduling feature requires versioning to be enabled")

// ErrCacheTTLInvalid rejects negative resolver cache expiries.
var ErrCacheTTLInvalid = errors.New("catalog config: resolver cache ttl must be zero or positive")

// ErrDefaultLocaleRequired ensures documents always have a fallback locale.
var ErrDefaultLocaleRequired = errors.New("catalog config: default locale is required")

// ErrStorageProviderUnknown rejects unsupported storage backends.
var ErrStorageProviderUnknown = errors.New("catalog config: storage provider is invalid")

var ErrLoggingProviderRequired = errors.New("catalog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("catalog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("catalog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("catalog config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the catalog
// module. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Storage       StorageConfig
	Cache         CacheConfig
	Features      Features
	Commands      CommandsConfig
	Logging       LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig captures resolver cache behaviour.
type CacheConfig struct {
	Enabled    bool
	Provider   string
	DefaultTTL time.Duration
	RedisAddr  string
}

// Features toggles module functionality.
type Features struct {
	Versioning bool
	Scheduling bool
	Cache      bool
	Logger     bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Storage: StorageConfig{
			Provider: "bun",
			Driver:   "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Provider:   "memory",
			DefaultTTL: 30 * time.Second,
		},
		Features: Features{
			Versioning: true,
			Scheduling: true,
			Cache:      true,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if cfg.Features.Scheduling && !cfg.Features.Versioning {
		return ErrSchedulingFeatureRequiresVersioning
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if provider := normalizeProvider(cfg.Storage.Provider); provider != "" && !isSupportedStorage(provider) {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedStorage(provider string) bool {
	switch provider {
	case "bun", "memory":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
