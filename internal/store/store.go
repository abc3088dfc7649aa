// Package store persists the settings record.
//
// Store performs one synchronous load or save of the data file. Persister
// wraps a Store with a fire-and-forget queue so that the settings panel
// never blocks on disk.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/imagetoolkit/internal/settings"
	"github.com/dshills/imagetoolkit/internal/settings/loader"
)

// DefaultPerm is the file mode of newly written data files.
const DefaultPerm os.FileMode = 0o644

// Store loads and saves the data file at a fixed path. The encoding follows
// the file extension (see loader.FormatOf).
type Store struct {
	path   string
	format loader.Format
	source loader.FileLoader
	perm   os.FileMode
}

// New creates a store for path.
func New(path string) *Store {
	return NewWithLoader(path, loader.ForPath(path))
}

// NewWithLoader creates a store for path that reads through source, for
// example a loader over an in-memory file system.
func NewWithLoader(path string, source loader.FileLoader) *Store {
	return &Store{
		path:   path,
		format: loader.FormatOf(path),
		source: source,
		perm:   DefaultPerm,
	}
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Format returns the data file encoding.
func (s *Store) Format() loader.Format {
	return s.format
}

// Load reads the persisted fields. A missing file yields nil, nil.
func (s *Store) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.source.LoadFrom(s.path)
}

// Save writes the complete record atomically. Keys in the existing file
// that are not record fields are kept.
func (s *Store) Save(ctx context.Context, rec settings.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid settings: %w", err)
	}

	existing, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading settings file %s: %w", s.path, err)
	}

	var data []byte
	switch s.format {
	case loader.FormatTOML:
		data, err = encodeTOML(existing, rec)
	default:
		data, err = encodeJSON(existing, rec)
	}
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := renameio.WriteFile(s.path, data, s.perm); err != nil {
		return fmt.Errorf("writing settings file %s: %w", s.path, err)
	}
	return nil
}

// Encode renders rec as a standalone document in format.
func Encode(format loader.Format, rec settings.Settings) ([]byte, error) {
	if format == loader.FormatTOML {
		return encodeTOML(nil, rec)
	}
	return encodeJSON(nil, rec)
}

// encodeJSON patches every record field into base. Invalid or non-object
// base documents are replaced.
func encodeJSON(base []byte, rec settings.Settings) ([]byte, error) {
	doc := []byte("{}")
	if gjson.ValidBytes(base) && gjson.ParseBytes(base).IsObject() {
		doc = base
	}

	values := rec.Map()
	var err error
	for _, field := range settings.Fields() {
		doc, err = sjson.SetBytes(doc, field, values[field])
		if err != nil {
			return nil, err
		}
	}
	return pretty.Pretty(doc), nil
}

// encodeTOML overlays the record on the decoded base document.
func encodeTOML(base []byte, rec settings.Settings) ([]byte, error) {
	doc, err := loader.TOMLParser{}.Parse("", base)
	if err != nil || doc == nil {
		doc = make(map[string]any)
	}
	for field, value := range rec.Map() {
		doc[field] = value
	}
	return toml.Marshal(doc)
}
