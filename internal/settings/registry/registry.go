package registry

import (
	"errors"
	"fmt"

	"github.com/dshills/imagetoolkit/internal/i18n"
	"github.com/dshills/imagetoolkit/internal/settings"
)

// Errors returned by registry operations.
var (
	// ErrSettingAlreadyRegistered indicates a duplicate registration.
	ErrSettingAlreadyRegistered = errors.New("setting already registered")

	// ErrSettingNotFound indicates the path is not registered.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrInvalidValue indicates a value rejected by a definition.
	ErrInvalidValue = errors.New("invalid value")
)

// Registry holds setting definitions in registration order, which is also
// the order in which the panel renders them.
//
// A Registry is built once and then only read; it is not safe for
// concurrent registration.
type Registry struct {
	settings map[string]*Setting
	order    []*Setting
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		settings: make(map[string]*Setting),
	}
}

// Builtin returns a registry describing every field of the settings record.
func Builtin() *Registry {
	r := New()

	r.MustRegister(Setting{
		Path:             settings.FieldViewImageGlobal,
		Type:             TypeBool,
		Default:          true,
		NameKey:          i18n.KeyViewImageGlobalName,
		DescKey:          i18n.KeyViewImageGlobalDesc,
		RefreshesFeature: true,
	})
	r.MustRegister(Setting{
		Path:             settings.FieldViewImageEditor,
		Type:             TypeBool,
		Default:          true,
		NameKey:          i18n.KeyViewImageEditorName,
		DescKey:          i18n.KeyViewImageEditorDesc,
		RefreshesFeature: true,
	})
	r.MustRegister(Setting{
		Path:              settings.FieldViewImageToggle,
		Type:              TypeBool,
		Default:           true,
		Deprecated:        true,
		DeprecatedMessage: "superseded by viewImageEditor and viewImageInCPB",
	})
	r.MustRegister(Setting{
		Path:             settings.FieldViewImageInCPB,
		Type:             TypeBool,
		Default:          true,
		NameKey:          i18n.KeyViewImageInCPBName,
		DescKey:          i18n.KeyViewImageInCPBDesc,
		RefreshesFeature: true,
	})
	r.MustRegister(Setting{
		Path:    settings.FieldViewImageWithALink,
		Type:    TypeBool,
		Default: false,
		NameKey: i18n.KeyViewImageWithALinkName,
		DescKey: i18n.KeyViewImageWithALinkDesc,
	})
	r.MustRegister(Setting{
		Path:    settings.FieldImageMoveSpeed,
		Type:    TypeInt,
		Default: settings.DefaultMoveSpeed,
		Minimum: settings.MinMoveSpeed,
		Maximum: settings.MaxMoveSpeed,
		Step:    settings.MoveSpeedStep,
		NameKey: i18n.KeyMoveSpeedName,
		DescKey: i18n.KeyMoveSpeedDesc,
	})

	modes := settings.Modes()
	keys := make([]string, len(modes))
	for i, m := range modes {
		keys[i] = m.Key()
	}
	r.MustRegister(Setting{
		Path:    settings.FieldFullScreenMode,
		Type:    TypeEnum,
		Default: settings.ModeFit.Key(),
		Enum:    keys,
		NameKey: i18n.KeyFullScreenModeName,
	})

	return r
}

// Register adds a setting definition.
// Returns an error if a setting with the same path already exists.
func (r *Registry) Register(setting Setting) error {
	if _, exists := r.settings[setting.Path]; exists {
		return fmt.Errorf("%w: %s", ErrSettingAlreadyRegistered, setting.Path)
	}

	s := &setting
	r.settings[setting.Path] = s
	r.order = append(r.order, s)
	return nil
}

// MustRegister registers a setting and panics on error.
func (r *Registry) MustRegister(setting Setting) {
	if err := r.Register(setting); err != nil {
		panic(err)
	}
}

// Get returns the definition for path, or nil if not registered.
func (r *Registry) Get(path string) *Setting {
	return r.settings[path]
}

// Has checks if a setting is registered.
func (r *Registry) Has(path string) bool {
	_, ok := r.settings[path]
	return ok
}

// All returns every definition in registration order.
func (r *Registry) All() []*Setting {
	result := make([]*Setting, len(r.order))
	copy(result, r.order)
	return result
}

// Visible returns the definitions the panel renders: everything that is not
// deprecated, in registration order.
func (r *Registry) Visible() []*Setting {
	var result []*Setting
	for _, s := range r.order {
		if !s.Deprecated {
			result = append(result, s)
		}
	}
	return result
}

// Deprecated returns all deprecated definitions.
func (r *Registry) Deprecated() []*Setting {
	var result []*Setting
	for _, s := range r.order {
		if s.Deprecated {
			result = append(result, s)
		}
	}
	return result
}

// Validate checks value against the definition registered at path.
func (r *Registry) Validate(path string, value any) error {
	s := r.Get(path)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return s.Validate(value)
}

// Defaults returns the static default of every registered setting.
func (r *Registry) Defaults() map[string]any {
	result := make(map[string]any, len(r.order))
	for _, s := range r.order {
		result[s.Path] = s.Default
	}
	return result
}
