package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLParser decodes TOML data files. Integers decode as int64.
type TOMLParser struct{}

// Parse decodes data. Empty input decodes to an empty map.
func (TOMLParser) Parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		pe := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}

	if config == nil {
		config = make(map[string]any)
	}
	return config, nil
}
