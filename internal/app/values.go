package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/imagetoolkit/internal/settings"
	"github.com/dshills/imagetoolkit/internal/settings/registry"
)

// ParseValue converts command line text to the type of field.
func ParseValue(field, raw string) (any, error) {
	s := registry.Builtin().Get(field)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", settings.ErrUnknownField, field)
	}

	switch s.Type {
	case registry.TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false, got %q", settings.ErrTypeMismatch, field, raw)
		}
		return b, nil
	case registry.TypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an integer, got %q", settings.ErrTypeMismatch, field, raw)
		}
		return n, nil
	default:
		return strings.ToUpper(strings.TrimSpace(raw)), nil
	}
}
