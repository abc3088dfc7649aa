package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dshills/imagetoolkit/internal/i18n"
	"github.com/dshills/imagetoolkit/internal/panel"
	"github.com/dshills/imagetoolkit/internal/plugin"
	plua "github.com/dshills/imagetoolkit/internal/plugin/lua"
	"github.com/dshills/imagetoolkit/internal/settings"
	"github.com/dshills/imagetoolkit/internal/settings/loader"
	"github.com/dshills/imagetoolkit/internal/store"
)

// Edit sources reported in change notifications.
const (
	SourceCLI    = "cli"
	SourceLua    = "lua"
	SourceImport = "import"
)

// App is a configured image toolkit host.
type App struct {
	opts       Options
	log        zerolog.Logger
	translator *i18n.Translator
	plugin     *plugin.Plugin
}

// Option configures an App beyond its Options.
type Option func(*config)

type config struct {
	log        *zerolog.Logger
	pluginOpts []plugin.Option
}

// WithLogger replaces the logger built from Options.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = &log
	}
}

// WithPluginOptions passes options to the plugin, such as a viewer or a
// dispatcher.
func WithPluginOptions(opts ...plugin.Option) Option {
	return func(c *config) {
		c.pluginOpts = append(c.pluginOpts, opts...)
	}
}

// New validates opts and builds an App. Logs go to stderr unless
// WithLogger is given.
func New(opts Options, appOpts ...Option) (*App, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var cfg config
	for _, o := range appOpts {
		o(&cfg)
	}
	log := NewLogger(opts, os.Stderr)
	if cfg.log != nil {
		log = *cfg.log
	}

	pluginOpts := []plugin.Option{
		plugin.WithLogger(withComponent(log, "plugin")),
		plugin.WithWriteTimeout(opts.WriteTimeout),
		plugin.WithErrorHandler(func(req store.Request, err error) {
			log.Error().Err(err).Str("request", req.ID.String()).Msg("settings were not saved")
		}),
	}
	if opts.Watch {
		pluginOpts = append(pluginOpts, plugin.WithWatch(0))
	}
	pluginOpts = append(pluginOpts, cfg.pluginOpts...)

	return &App{
		opts:       opts,
		log:        log,
		translator: i18n.New(opts.Locale),
		plugin:     plugin.New(opts.DataPath, pluginOpts...),
	}, nil
}

// Options returns the options the App was built with.
func (a *App) Options() Options {
	return a.opts
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.log
}

// Translator returns the translator selected by the locale option.
func (a *App) Translator() *i18n.Translator {
	return a.translator
}

// Plugin returns the plugin instance.
func (a *App) Plugin() *plugin.Plugin {
	return a.plugin
}

// Start creates the data directory if needed and activates the plugin.
func (a *App) Start(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(a.opts.DataPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := a.plugin.Activate(ctx); err != nil {
		return err
	}
	a.log.Debug().
		Str("locale", a.translator.Language().String()).
		Bool("watch", a.opts.Watch).
		Msg("app started")
	return nil
}

// Shutdown waits for pending saves within ctx and deactivates the plugin.
func (a *App) Shutdown(ctx context.Context) error {
	return a.plugin.Close(ctx)
}

// NewTab returns a settings panel in the configured language.
func (a *App) NewTab(opts ...panel.Option) *panel.Controller {
	return a.plugin.SettingsTab(a.translator.Func(), opts...)
}

// Set edits one field from the command line.
func (a *App) Set(field string, value any) error {
	return a.NewTab(panel.WithSource(SourceCLI)).Set(field, value)
}

// Reset restores every default.
func (a *App) Reset() error {
	return a.plugin.Reset(SourceCLI)
}

// Export renders the current record in format.
func (a *App) Export(format loader.Format) ([]byte, error) {
	return store.Encode(format, *a.plugin.Settings())
}

// Import replaces the record with one decoded from r. Missing fields take
// their defaults; any invalid field rejects the whole import.
func (a *App) Import(r io.Reader, format loader.Format) error {
	var source loader.ReaderLoader = loader.ForFormat(format)
	raw, err := source.LoadFromReader(r)
	if err != nil {
		return err
	}
	rec, err := settings.LoadWithDefaults(raw)
	if err != nil {
		return fmt.Errorf("importing settings: %w", err)
	}
	return a.plugin.Replace(rec, SourceImport)
}

// RunScript runs a Lua script against the settings. print output goes to
// out.
func (a *App) RunScript(ctx context.Context, script string, out io.Writer) error {
	state, err := plua.NewState(plua.WithOutput(out))
	if err != nil {
		return err
	}
	defer state.Close()

	plua.OpenSettings(state, a.plugin, a.NewTab(panel.WithSource(SourceLua)))
	if err := state.Run(ctx, script); err != nil {
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}

// Record returns a copy of the current record.
func (a *App) Record() settings.Settings {
	return *a.plugin.Settings()
}
