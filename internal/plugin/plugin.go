package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/imagetoolkit/internal/i18n"
	"github.com/dshills/imagetoolkit/internal/panel"
	"github.com/dshills/imagetoolkit/internal/settings"
	"github.com/dshills/imagetoolkit/internal/settings/notify"
	"github.com/dshills/imagetoolkit/internal/settings/watcher"
	"github.com/dshills/imagetoolkit/internal/store"
)

// SourceFile is the notify source of reloads caused by file changes.
const SourceFile = "file"

// Plugin is one activated instance of the image toolkit.
type Plugin struct {
	store     *store.Store
	persister *store.Persister
	notifier  *notify.Notifier
	watcher   *watcher.Watcher

	rec   settings.Settings
	cache *panel.LastKnownGood

	viewer   Viewer
	dispatch func(func())
	onError  store.ErrorHandler
	watch    bool
	debounce time.Duration
	timeout  time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	state   State
	feature FeatureState
}

var _ panel.Host = (*Plugin)(nil)

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Plugin) {
		p.log = log
	}
}

// WithViewer sets the viewer binding driven by the feature state.
func WithViewer(v Viewer) Option {
	return func(p *Plugin) {
		p.viewer = v
	}
}

// WithDispatcher sets how file change reloads reach the UI goroutine.
// dispatch must not block until the function has run.
func WithDispatcher(dispatch func(func())) Option {
	return func(p *Plugin) {
		p.dispatch = dispatch
	}
}

// WithWatch enables reloading when the settings file changes on disk. A
// zero debounce keeps the watcher's default.
func WithWatch(debounce time.Duration) Option {
	return func(p *Plugin) {
		p.watch = true
		p.debounce = debounce
	}
}

// WithErrorHandler receives failed saves, in addition to the log.
func WithErrorHandler(h store.ErrorHandler) Option {
	return func(p *Plugin) {
		p.onError = h
	}
}

// WithWriteTimeout bounds each background save.
func WithWriteTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		p.timeout = d
	}
}

// New creates an inactive plugin persisting to path. The file format
// follows the extension.
func New(path string, opts ...Option) *Plugin {
	p := &Plugin{
		store:    store.New(path),
		notifier: notify.New(),
		rec:      settings.Defaults(),
		cache:    panel.NewLastKnownGood(settings.Defaults()),
		log:      zerolog.Nop(),
		state:    StateInactive,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.dispatch == nil {
		p.dispatch = func(fn func()) { fn() }
	}
	return p
}

// State returns the lifecycle state.
func (p *Plugin) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Plugin) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Store returns the settings store.
func (p *Plugin) Store() *store.Store {
	return p.store
}

// Notifier returns the notifier that publishes every edit and reload.
func (p *Plugin) Notifier() *notify.Notifier {
	return p.notifier
}

// Activate loads the persisted settings, applies the feature state and
// starts persisting edits. Individual bad fields fall back to their
// defaults and are logged; an unreadable or malformed file fails
// activation.
func (p *Plugin) Activate(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateActive || p.state == StateActivating {
		p.mu.Unlock()
		return ErrAlreadyActive
	}
	p.state = StateActivating
	p.mu.Unlock()

	rec, err := p.load(ctx)
	if err != nil {
		p.setState(StateError)
		return fmt.Errorf("activating: %w", err)
	}
	p.rec = rec
	*p.cache = *panel.NewLastKnownGood(rec)

	opts := []store.PersisterOption{store.WithLogger(p.log)}
	if p.onError != nil {
		opts = append(opts, store.WithErrorHandler(p.onError))
	}
	if p.timeout > 0 {
		opts = append(opts, store.WithWriteTimeout(p.timeout))
	}
	p.persister = store.NewPersister(p.store, opts...)

	if p.watch {
		if err := p.startWatcher(); err != nil {
			p.persister.Close()
			p.persister = nil
			p.setState(StateError)
			return fmt.Errorf("activating: %w", err)
		}
	}

	p.setState(StateActive)
	p.RefreshFeatureState()

	p.log.Info().
		Str("path", p.store.Path()).
		Str("format", p.store.Format().String()).
		Bool("viewer", p.FeatureState().Active).
		Msg("image toolkit activated")
	return nil
}

func (p *Plugin) load(ctx context.Context) (settings.Settings, error) {
	raw, err := p.store.Load(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	rec, err := settings.LoadWithDefaults(raw)
	for _, fe := range settings.FieldErrors(err) {
		p.log.Warn().
			Str("field", fe.Field).
			Interface("value", fe.Value).
			Err(fe.Err).
			Msg("persisted setting replaced by default")
	}
	return rec, nil
}

func (p *Plugin) startWatcher() error {
	opts := []watcher.Option{watcher.WithLogger(p.log)}
	if p.debounce > 0 {
		opts = append(opts, watcher.WithDebounce(p.debounce))
	}
	w, err := watcher.New(p.store.Path(), opts...)
	if err != nil {
		return err
	}
	w.OnChange(func(ev watcher.Event) {
		p.dispatch(func() {
			p.onFileChange(ev)
		})
	})
	if err := w.Start(); err != nil {
		_ = w.Close()
		return err
	}
	p.watcher = w
	return nil
}

func (p *Plugin) onFileChange(ev watcher.Event) {
	if p.State() != StateActive {
		return
	}
	if p.persister.Pending() {
		// Our own write is still in flight; its event follows.
		p.log.Debug().Str("op", ev.Op.String()).Msg("settings file change skipped during save")
		return
	}
	if err := p.Reload(context.Background()); err != nil {
		p.log.Error().Err(err).Str("path", ev.Path).Msg("settings reload failed")
	}
}

// Settings returns the live record. Settings panels edit it in place.
func (p *Plugin) Settings() *settings.Settings {
	return &p.rec
}

// Cache returns the last-known-good cache shared by settings panels. The
// same cache lives for the plugin's lifetime; activation and reloads
// update it in place.
func (p *Plugin) Cache() *panel.LastKnownGood {
	return p.cache
}

// FeatureState returns where image viewing is attached.
func (p *Plugin) FeatureState() FeatureState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.feature
}

// RefreshFeatureState re-derives the feature state from the record and
// updates the viewer when it changed.
func (p *Plugin) RefreshFeatureState() {
	next := FeatureStateOf(p.rec)

	p.mu.Lock()
	prev := p.feature
	p.mu.Unlock()
	if next.Equal(prev) {
		return
	}

	if p.viewer != nil {
		var err error
		if next.Active {
			err = p.viewer.Attach(next.Targets)
		} else {
			err = p.viewer.Detach()
		}
		if err != nil {
			p.log.Error().Err(err).Bool("active", next.Active).Msg("updating image viewer")
			return
		}
	}

	p.mu.Lock()
	p.feature = next
	p.mu.Unlock()

	p.log.Debug().
		Bool("active", next.Active).
		Interface("targets", next.Targets).
		Msg("feature state changed")
}

// SaveSettings submits the complete current record for persistence and
// returns immediately.
func (p *Plugin) SaveSettings() {
	if p.persister == nil {
		p.log.Warn().Msg("settings save requested before activation")
		if p.onError != nil {
			p.onError(store.Request{}, ErrNotActive)
		}
		return
	}
	req := p.persister.Submit(p.rec)
	p.log.Debug().Str("request", req.ID.String()).Uint64("seq", req.Seq).Msg("settings save submitted")
}

// Flush waits for every submitted save.
func (p *Plugin) Flush(ctx context.Context) error {
	if p.persister == nil {
		return ErrNotActive
	}
	return p.persister.Flush(ctx)
}

// SettingsTab returns a settings panel bound to this plugin and its
// shared cache. A tab created before Activate shows the loaded values once
// displayed after activation; edits made while inactive are not saved.
func (p *Plugin) SettingsTab(translate i18n.Func, opts ...panel.Option) *panel.Controller {
	base := []panel.Option{
		panel.WithNotifier(p.notifier),
		panel.WithLogger(p.log),
	}
	return panel.New(p, p.cache, translate, append(base, opts...)...)
}

// Reload reads the settings file again and replaces the record when it
// differs. Open panels learn about it from the ChangeReload notification
// and should display again.
func (p *Plugin) Reload(ctx context.Context) error {
	if p.State() != StateActive {
		return ErrNotActive
	}

	rec, err := p.load(ctx)
	if err != nil {
		return fmt.Errorf("reloading: %w", err)
	}
	if rec == p.rec {
		return nil
	}

	p.rec = rec
	*p.cache = *panel.NewLastKnownGood(rec)
	p.RefreshFeatureState()
	p.notifier.NotifyReload(SourceFile)

	p.log.Info().Str("path", p.store.Path()).Msg("settings reloaded")
	return nil
}

// Reset replaces every field with its default, including the panel cache,
// and persists the result.
func (p *Plugin) Reset(source string) error {
	return p.Replace(settings.Defaults(), source)
}

// Replace swaps in a complete record, such as an imported one, updates the
// panel cache and the feature state, and persists the result.
func (p *Plugin) Replace(rec settings.Settings, source string) error {
	if p.State() != StateActive {
		return ErrNotActive
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	p.rec = rec
	*p.cache = *panel.NewLastKnownGood(rec)
	p.RefreshFeatureState()
	p.SaveSettings()
	p.notifier.NotifyReload(source)
	return nil
}

// Deactivate stops watching, waits for pending saves within ctx, and
// detaches the viewer. The plugin can be activated again.
func (p *Plugin) Deactivate(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateActive {
		p.mu.Unlock()
		return ErrNotActive
	}
	p.state = StateDeactivating
	p.mu.Unlock()

	var errs []error
	if p.watcher != nil {
		if err := p.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watcher: %w", err))
		}
		p.watcher = nil
	}

	if err := p.persister.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flushing settings: %w", err))
	}
	p.persister.Close()
	p.persister = nil

	p.mu.Lock()
	wasActive := p.feature.Active
	p.feature = FeatureState{}
	p.mu.Unlock()
	if wasActive && p.viewer != nil {
		if err := p.viewer.Detach(); err != nil {
			errs = append(errs, fmt.Errorf("detaching viewer: %w", err))
		}
	}

	p.setState(StateInactive)
	p.log.Info().Msg("image toolkit deactivated")
	return errors.Join(errs...)
}

// Close deactivates if needed and releases the notifier's observers.
func (p *Plugin) Close(ctx context.Context) error {
	var err error
	if p.State() == StateActive {
		err = p.Deactivate(ctx)
	}
	p.notifier.Close()
	return err
}
