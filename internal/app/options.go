// Package app wires the image toolkit components into a runnable host.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IMAGETOOLKIT_"

// Environment overrides.
const (
	EnvData      = EnvPrefix + "DATA"
	EnvLocale    = EnvPrefix + "LOCALE"
	EnvLogLevel  = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat = EnvPrefix + "LOG_FORMAT"
	EnvWatch     = EnvPrefix + "WATCH"
)

// Log output formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// ErrInvalidOptions wraps every options validation failure.
var ErrInvalidOptions = errors.New("invalid options")

// Options configures an App.
type Options struct {
	// DataPath is the persisted settings file. ".toml" selects TOML,
	// anything else JSON.
	DataPath string

	// Locale selects the translation catalog, e.g. "zh-CN".
	Locale string

	// LogLevel is a zerolog level name.
	LogLevel string

	// LogFormat is LogFormatConsole or LogFormatJSON.
	LogFormat string

	// Watch reloads the settings when the file changes on disk.
	Watch bool

	// WriteTimeout bounds each background save.
	WriteTimeout time.Duration
}

// DefaultOptions returns options for the current user.
func DefaultOptions() Options {
	return Options{
		DataPath:     filepath.Join(defaultUserConfigDir(), "data.json"),
		Locale:       "en",
		LogLevel:     zerolog.InfoLevel.String(),
		LogFormat:    LogFormatConsole,
		WriteTimeout: 10 * time.Second,
	}
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "imagetoolkit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "imagetoolkit")
}

// ApplyEnv overrides options from environment variables read with lookup.
// Empty values are treated as set.
func (o *Options) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvData); ok {
		o.DataPath = v
	}
	if v, ok := lookup(EnvLocale); ok {
		o.Locale = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		o.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		o.LogFormat = v
	}
	if v, ok := lookup(EnvWatch); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidOptions, EnvWatch, v, err)
		}
		o.Watch = b
	}
	return nil
}

// Validate checks the options.
func (o Options) Validate() error {
	var errs []error
	if o.DataPath == "" {
		errs = append(errs, fmt.Errorf("%w: data path is empty", ErrInvalidOptions))
	}
	if _, err := zerolog.ParseLevel(o.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: log level %q", ErrInvalidOptions, o.LogLevel))
	}
	switch o.LogFormat {
	case LogFormatConsole, LogFormatJSON, "":
	default:
		errs = append(errs, fmt.Errorf("%w: log format %q", ErrInvalidOptions, o.LogFormat))
	}
	if o.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: negative write timeout", ErrInvalidOptions))
	}
	return errors.Join(errs...)
}
