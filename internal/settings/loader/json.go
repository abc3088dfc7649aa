package loader

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// JSONParser decodes JSON data files. Numbers decode as float64.
type JSONParser struct{}

// Parse decodes data. Empty input and a top-level null decode to nil.
func (JSONParser) Parse(source string, data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if !gjson.ValidBytes(trimmed) {
		return nil, &ParseError{
			Path:    source,
			Message: "invalid JSON",
		}
	}

	result := gjson.ParseBytes(trimmed)
	if !result.IsObject() {
		return nil, &ParseError{
			Path:    source,
			Message: "top-level value must be an object, got " + result.Type.String(),
		}
	}

	config, _ := result.Value().(map[string]any)
	if config == nil {
		config = make(map[string]any)
	}
	return config, nil
}
