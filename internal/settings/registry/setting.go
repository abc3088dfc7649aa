// Package registry describes the fields of the settings record.
//
// Each definition carries the field's type, default, bounds, allowed values,
// deprecation state and translation keys. The settings panel renders from
// these definitions and scripted edits are validated against them.
package registry

import (
	"fmt"
	"math"
)

// Setting defines one field of the settings record.
type Setting struct {
	// Path is the persisted field name (e.g., "imageMoveSpeed").
	Path string

	// Type is the field's data type.
	Type SettingType

	// Default is the static default value.
	Default any

	// Enum lists allowed keys for enum types.
	Enum []string

	// Minimum and Maximum bound integer types.
	Minimum int
	Maximum int

	// Step is the slider increment for integer types.
	Step int

	// NameKey and DescKey are translation keys for the label and help text.
	// DescKey may be empty.
	NameKey string
	DescKey string

	// RefreshesFeature marks toggles whose change re-evaluates the
	// image-viewing feature state.
	RefreshesFeature bool

	// Deprecated marks fields kept only for load compatibility. They are not
	// rendered and cannot be edited.
	Deprecated        bool
	DeprecatedMessage string
}

// Validate checks if a value is valid for this setting.
func (s *Setting) Validate(value any) error {
	switch s.Type {
	case TypeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %s expects boolean, got %T", ErrInvalidValue, s.Path, value)
		}
	case TypeInt:
		n, ok := asInt(value)
		if !ok {
			return fmt.Errorf("%w: %s expects integer, got %T", ErrInvalidValue, s.Path, value)
		}
		if n < s.Minimum || n > s.Maximum {
			return fmt.Errorf("%w: %s must be in [%d, %d], got %d", ErrInvalidValue, s.Path, s.Minimum, s.Maximum, n)
		}
	case TypeEnum:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", ErrInvalidValue, s.Path, value)
		}
		if !containsValue(s.Enum, str) {
			return fmt.Errorf("%w: %s must be one of %v, got %q", ErrInvalidValue, s.Path, s.Enum, str)
		}
	}
	return nil
}

// SettingType represents the data type of a setting.
type SettingType uint8

const (
	// TypeBool is rendered as a toggle.
	TypeBool SettingType = iota
	// TypeInt is rendered as a bounded slider.
	TypeInt
	// TypeEnum is rendered as a dropdown.
	TypeEnum
)

// String returns the string representation of the type.
func (t SettingType) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

func containsValue(slice []string, value string) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}

// asInt accepts Go integers and integral floats, as decoded from Lua or JSON.
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
