package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Persisted field names.
const (
	FieldViewImageGlobal    = "viewImageGlobal"
	FieldViewImageEditor    = "viewImageEditor"
	FieldViewImageToggle    = "viewImageToggle"
	FieldViewImageInCPB     = "viewImageInCPB"
	FieldViewImageWithALink = "viewImageWithALink"
	FieldImageMoveSpeed     = "imageMoveSpeed"
	FieldFullScreenMode     = "imgFullScreenMode"

	// fullScreenModeAlias is accepted on load only.
	fullScreenModeAlias = "fullScreenMode"
)

// Bounds of the image move speed.
const (
	MinMoveSpeed     = 1
	MaxMoveSpeed     = 30
	MoveSpeedStep    = 1
	DefaultMoveSpeed = 10
)

// Settings is the persisted configuration record.
type Settings struct {
	ViewImageGlobal bool `json:"viewImageGlobal" toml:"viewImageGlobal"`
	ViewImageEditor bool `json:"viewImageEditor" toml:"viewImageEditor"`

	// Deprecated: kept so records written by older versions load cleanly.
	// Nothing reads it.
	ViewImageToggle bool `json:"viewImageToggle" toml:"viewImageToggle"`

	ViewImageInCPB     bool           `json:"viewImageInCPB" toml:"viewImageInCPB"`
	ViewImageWithALink bool           `json:"viewImageWithALink" toml:"viewImageWithALink"`
	ImageMoveSpeed     int            `json:"imageMoveSpeed" toml:"imageMoveSpeed"`
	FullScreenMode     FullScreenMode `json:"imgFullScreenMode" toml:"imgFullScreenMode"`
}

// Defaults returns the default record.
func Defaults() Settings {
	return Settings{
		ViewImageGlobal:    true,
		ViewImageEditor:    true,
		ViewImageToggle:    true,
		ViewImageInCPB:     true,
		ViewImageWithALink: false,
		ImageMoveSpeed:     DefaultMoveSpeed,
		FullScreenMode:     ModeFit,
	}
}

// Fields returns the persisted field names in declaration order.
func Fields() []string {
	return []string{
		FieldViewImageGlobal,
		FieldViewImageEditor,
		FieldViewImageToggle,
		FieldViewImageInCPB,
		FieldViewImageWithALink,
		FieldImageMoveSpeed,
		FieldFullScreenMode,
	}
}

// ClampMoveSpeed clamps v to [MinMoveSpeed, MaxMoveSpeed].
func ClampMoveSpeed(v int) int {
	if v < MinMoveSpeed {
		return MinMoveSpeed
	}
	if v > MaxMoveSpeed {
		return MaxMoveSpeed
	}
	return v
}

// LoadWithDefaults overlays the fields present in persisted onto the
// defaults. Unknown keys and nil values are ignored. The returned record is
// always complete and valid; a non-nil error joins one *FieldError per field
// that could not be taken as persisted.
func LoadWithDefaults(persisted map[string]any) (Settings, error) {
	s := Defaults()
	var errs []error

	for _, field := range boolFields {
		v, ok := persisted[field]
		if !ok || v == nil {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			errs = append(errs, &FieldError{Field: field, Value: v, Err: ErrTypeMismatch})
			continue
		}
		*s.boolField(field) = b
	}

	if v, ok := persisted[FieldImageMoveSpeed]; ok && v != nil {
		n, err := toInt(v)
		switch {
		case err != nil:
			errs = append(errs, &FieldError{Field: FieldImageMoveSpeed, Value: v, Err: err})
		case ClampMoveSpeed(n) != n:
			s.ImageMoveSpeed = ClampMoveSpeed(n)
			errs = append(errs, &FieldError{Field: FieldImageMoveSpeed, Value: v, Err: ErrOutOfRange})
		default:
			s.ImageMoveSpeed = n
		}
	}

	v, ok := persisted[FieldFullScreenMode]
	if !ok || v == nil {
		v, ok = persisted[fullScreenModeAlias]
	}
	if ok && v != nil {
		key, isString := v.(string)
		if !isString {
			errs = append(errs, &FieldError{Field: FieldFullScreenMode, Value: v, Err: ErrTypeMismatch})
		} else if mode, err := ParseFullScreenMode(key); err != nil {
			errs = append(errs, err)
		} else {
			s.FullScreenMode = mode
		}
	}

	return s, errors.Join(errs...)
}

// Validate checks the record invariants.
func (s Settings) Validate() error {
	var errs []error
	if ClampMoveSpeed(s.ImageMoveSpeed) != s.ImageMoveSpeed {
		errs = append(errs, &FieldError{Field: FieldImageMoveSpeed, Value: s.ImageMoveSpeed, Err: ErrOutOfRange})
	}
	if !s.FullScreenMode.Valid() {
		errs = append(errs, &FieldError{Field: FieldFullScreenMode, Value: uint8(s.FullScreenMode), Err: ErrInvalidMode})
	}
	return errors.Join(errs...)
}

// ViewerEnabled reports whether any of the image-viewing toggles is on.
func (s Settings) ViewerEnabled() bool {
	return s.ViewImageGlobal || s.ViewImageEditor || s.ViewImageInCPB
}

// Map returns the complete record keyed by persisted field names.
func (s Settings) Map() map[string]any {
	return map[string]any{
		FieldViewImageGlobal:    s.ViewImageGlobal,
		FieldViewImageEditor:    s.ViewImageEditor,
		FieldViewImageToggle:    s.ViewImageToggle,
		FieldViewImageInCPB:     s.ViewImageInCPB,
		FieldViewImageWithALink: s.ViewImageWithALink,
		FieldImageMoveSpeed:     s.ImageMoveSpeed,
		FieldFullScreenMode:     s.FullScreenMode.Key(),
	}
}

// Value returns the value of a field by its persisted name. Modes are
// returned as their key.
func (s *Settings) Value(field string) (any, error) {
	if p := s.boolField(field); p != nil {
		return *p, nil
	}
	switch field {
	case FieldImageMoveSpeed:
		return s.ImageMoveSpeed, nil
	case FieldFullScreenMode, fullScreenModeAlias:
		return s.FullScreenMode.Key(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// Bool returns the value of a boolean field.
func (s *Settings) Bool(field string) (bool, error) {
	p := s.boolField(field)
	if p == nil {
		return false, fmt.Errorf("%w: %s is not a boolean field", ErrUnknownField, field)
	}
	return *p, nil
}

// SetBool sets a boolean field.
func (s *Settings) SetBool(field string, v bool) error {
	p := s.boolField(field)
	if p == nil {
		return fmt.Errorf("%w: %s is not a boolean field", ErrUnknownField, field)
	}
	*p = v
	return nil
}

var boolFields = []string{
	FieldViewImageGlobal,
	FieldViewImageEditor,
	FieldViewImageToggle,
	FieldViewImageInCPB,
	FieldViewImageWithALink,
}

func (s *Settings) boolField(field string) *bool {
	switch field {
	case FieldViewImageGlobal:
		return &s.ViewImageGlobal
	case FieldViewImageEditor:
		return &s.ViewImageEditor
	case FieldViewImageToggle:
		return &s.ViewImageToggle
	case FieldViewImageInCPB:
		return &s.ViewImageInCPB
	case FieldViewImageWithALink:
		return &s.ViewImageWithALink
	default:
		return nil
	}
}

// toInt converts a decoded numeric value to int, saturating at the int
// range. Non-integral numbers are a type mismatch.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return saturate(float64(n)), nil
	case uint:
		return saturate(float64(n)), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return saturate(float64(n)), nil
	case uint64:
		return saturate(float64(n)), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		return stringToInt(n.String())
	case string:
		return stringToInt(n)
	default:
		return 0, ErrTypeMismatch
	}
}

func stringToInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return saturate(float64(i)), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrTypeMismatch
	}
	return floatToInt(f)
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, ErrTypeMismatch
	}
	return saturate(f), nil
}

func saturate(f float64) int {
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	if f <= math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}
