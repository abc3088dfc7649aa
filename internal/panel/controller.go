package panel

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dshills/imagetoolkit/internal/i18n"
	"github.com/dshills/imagetoolkit/internal/settings"
	"github.com/dshills/imagetoolkit/internal/settings/notify"
	"github.com/dshills/imagetoolkit/internal/settings/registry"
)

// ErrNotEditable is returned for fields the panel does not edit, such as
// deprecated ones.
var ErrNotEditable = errors.New("field is not editable")

// SourcePanel is the notify source of edits made through a surface.
const SourcePanel = "panel"

// LastKnownGood mirrors the most recently chosen move speed and
// full-screen mode. A new panel pre-selects these rather than the static
// defaults. It lives in memory only and is shared by every controller of
// one plugin instance; only controllers write it.
type LastKnownGood struct {
	MoveSpeed      int
	FullScreenMode settings.FullScreenMode
}

// NewLastKnownGood initializes the cache from the loaded record.
func NewLastKnownGood(rec settings.Settings) *LastKnownGood {
	return &LastKnownGood{
		MoveSpeed:      rec.ImageMoveSpeed,
		FullScreenMode: rec.FullScreenMode,
	}
}

// Readout formats the slider readout for v.
func Readout(v int) string {
	return " " + strconv.Itoa(v)
}

// Controller binds the settings record to a Surface.
//
// A Controller is used from the host's UI goroutine only.
type Controller struct {
	host      Host
	cache     *LastKnownGood
	translate i18n.Func
	registry  *registry.Registry
	notifier  *notify.Notifier
	log       zerolog.Logger
	source    string

	// Controls of the current display, nil when not displayed.
	toggles  map[string]Toggle
	slider   Slider
	dropdown Dropdown

	// generation increments on every Display and Dispose; callbacks carry
	// the generation of their display and are ignored once it is stale.
	generation uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier publishes one change per edit.
func WithNotifier(n *notify.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithSource names the origin of edits in change notifications.
func WithSource(source string) Option {
	return func(c *Controller) {
		c.source = source
	}
}

// New creates a controller. cache must be the plugin's shared cache; a nil
// cache is initialized from the host's current record. A nil translate
// renders raw keys.
func New(host Host, cache *LastKnownGood, translate i18n.Func, opts ...Option) *Controller {
	if cache == nil {
		cache = NewLastKnownGood(*host.Settings())
	}
	if translate == nil {
		translate = i18n.Identity
	}

	c := &Controller{
		host:      host,
		cache:     cache,
		translate: translate,
		registry:  registry.Builtin(),
		log:       zerolog.Nop(),
		source:    SourcePanel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache returns the shared last-known-good cache.
func (c *Controller) Cache() *LastKnownGood {
	return c.cache
}

// Display clears surface and renders every visible field from the current
// record. Displaying twice without edits in between renders identical
// controls.
func (c *Controller) Display(surface Surface) {
	c.generation++
	gen := c.generation

	c.toggles = make(map[string]Toggle)
	c.slider = nil
	c.dropdown = nil

	surface.Clear()
	surface.AddHeading(c.translate(i18n.KeySettingsTitle))

	rec := c.host.Settings()
	for _, s := range c.registry.Visible() {
		name, desc := c.translate(s.NameKey), ""
		if s.DescKey != "" {
			desc = c.translate(s.DescKey)
		}

		switch s.Type {
		case registry.TypeBool:
			path := s.Path
			v, err := rec.Bool(path)
			if err != nil {
				c.log.Error().Err(err).Str("field", path).Msg("registry field missing from record")
				continue
			}
			tg := surface.AddToggle(name, desc)
			tg.SetValue(v)
			tg.OnChange(func(v bool) {
				if c.generation != gen {
					return
				}
				if err := c.SetToggle(path, v); err != nil {
					c.log.Warn().Err(err).Str("field", path).Msg("toggle change rejected")
				}
			})
			c.toggles[path] = tg

		case registry.TypeInt:
			sl := surface.AddSlider(name, desc)
			sl.SetLimits(s.Minimum, s.Maximum, s.Step)
			sl.SetValue(rec.ImageMoveSpeed)
			sl.SetReadout(Readout(rec.ImageMoveSpeed))
			sl.OnChange(func(v int) {
				if c.generation != gen {
					return
				}
				c.SetMoveSpeed(v)
			})
			c.slider = sl

		case registry.TypeEnum:
			dd := surface.AddDropdown(name, desc)
			for _, m := range settings.Modes() {
				dd.AddOption(m.Key(), c.translate(m.LabelKey()))
			}
			dd.SetValue(c.cache.FullScreenMode.Key())
			dd.OnChange(func(key string) {
				if c.generation != gen {
					return
				}
				if err := c.SetFullScreenMode(key); err != nil {
					c.log.Warn().Err(err).Str("key", key).Msg("full-screen mode change ignored")
				}
			})
			c.dropdown = dd
		}
	}
}

// Dispose detaches the controller from the last displayed surface. Later
// callbacks from that surface are ignored. The controller may be displayed
// again.
func (c *Controller) Dispose() {
	c.generation++
	c.toggles = nil
	c.slider = nil
	c.dropdown = nil
}

// SetToggle edits a boolean field.
func (c *Controller) SetToggle(field string, v bool) error {
	s := c.registry.Get(field)
	if s == nil || s.Type != registry.TypeBool {
		return fmt.Errorf("%w: %s is not a toggle", settings.ErrUnknownField, field)
	}
	if s.Deprecated {
		return fmt.Errorf("%w: %s", ErrNotEditable, field)
	}

	rec := c.host.Settings()
	old, _ := rec.Bool(field)
	if err := rec.SetBool(field, v); err != nil {
		return err
	}
	if tg, ok := c.toggles[field]; ok && tg.Value() != v {
		tg.SetValue(v)
	}

	if s.RefreshesFeature {
		c.host.RefreshFeatureState()
	}
	c.commit(field, old, v)
	return nil
}

// SetMoveSpeed edits the image move speed. Out-of-range values are
// clamped.
func (c *Controller) SetMoveSpeed(v int) {
	v = settings.ClampMoveSpeed(v)

	rec := c.host.Settings()
	old := rec.ImageMoveSpeed
	rec.ImageMoveSpeed = v
	c.cache.MoveSpeed = v

	if c.slider != nil {
		c.slider.SetReadout(Readout(v))
		if c.slider.Value() != v {
			c.slider.SetValue(v)
		}
	}
	c.commit(settings.FieldImageMoveSpeed, old, v)
}

// SetFullScreenMode edits the full-screen mode. Unknown keys fail with
// settings.ErrInvalidMode and leave the record and the cache unchanged;
// the dropdown is reset to the record's mode.
func (c *Controller) SetFullScreenMode(key string) error {
	rec := c.host.Settings()

	mode, err := settings.ParseFullScreenMode(key)
	if err != nil {
		if c.dropdown != nil && c.dropdown.Value() != rec.FullScreenMode.Key() {
			c.dropdown.SetValue(rec.FullScreenMode.Key())
		}
		return err
	}

	old := rec.FullScreenMode
	rec.FullScreenMode = mode
	c.cache.FullScreenMode = mode

	if c.dropdown != nil && c.dropdown.Value() != key {
		c.dropdown.SetValue(key)
	}
	c.commit(settings.FieldFullScreenMode, old.Key(), key)
	return nil
}

// Set edits any editable field from a loosely typed value, as produced by
// scripts and command lines. Toggles and modes are validated against the
// registry; the move speed is clamped like slider input.
func (c *Controller) Set(field string, value any) error {
	s := c.registry.Get(field)
	if s == nil {
		return fmt.Errorf("%w: %s", settings.ErrUnknownField, field)
	}
	if s.Deprecated {
		return fmt.Errorf("%w: %s", ErrNotEditable, field)
	}

	switch s.Type {
	case registry.TypeBool:
		if err := s.Validate(value); err != nil {
			return err
		}
		return c.SetToggle(field, value.(bool))
	case registry.TypeInt:
		n, err := intValue(value)
		if err != nil {
			return err
		}
		c.SetMoveSpeed(n)
		return nil
	case registry.TypeEnum:
		key, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", settings.ErrTypeMismatch, field, value)
		}
		return c.SetFullScreenMode(key)
	}
	return fmt.Errorf("%w: %s", ErrNotEditable, field)
}

// commit publishes the edit and requests persistence.
func (c *Controller) commit(field string, old, v any) {
	c.log.Debug().
		Str("field", field).
		Interface("old", old).
		Interface("new", v).
		Str("source", c.source).
		Msg("setting changed")

	if c.notifier != nil {
		c.notifier.NotifySet(field, old, v, c.source)
	}
	c.host.SaveSettings()
}

func intValue(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(max(min(v, math.MaxInt32), math.MinInt32)), nil
	case float64:
		if v != math.Trunc(v) || math.IsNaN(v) {
			return 0, fmt.Errorf("%w: expected integer, got %v", settings.ErrTypeMismatch, v)
		}
		return int(max(min(v, math.MaxInt32), math.MinInt32)), nil
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", settings.ErrTypeMismatch, value)
	}
}
