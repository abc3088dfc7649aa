// Package loader decodes persisted settings data.
//
// Loaders return a loosely typed map that settings.LoadWithDefaults
// overlays on the defaults. A missing file is not an error: the loader
// returns nil, nil and the record starts from defaults.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader is the interface for settings loaders.
type Loader interface {
	// Load reads settings from the source and returns a map.
	// Returns nil, nil if the source doesn't exist.
	Load() (map[string]any, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads settings from a specific path.
	LoadFrom(path string) (map[string]any, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads settings from a reader.
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// Parser decodes raw bytes. source names the data in errors.
type Parser interface {
	Parse(source string, data []byte) (map[string]any, error)
}

// FileSystem is an abstraction for file system reads so tests can use an
// in-memory file system.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format identifies an encoding of the data file.
type Format int

const (
	// FormatJSON is the default data file format.
	FormatJSON Format = iota
	// FormatTOML is used for files ending in .toml.
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatOf picks the format by file extension.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// ParserFor returns the parser for a format.
func ParserFor(f Format) Parser {
	if f == FormatTOML {
		return TOMLParser{}
	}
	return JSONParser{}
}

// FileSource loads a data file through a FileSystem and a Parser.
type FileSource struct {
	fs     FileSystem
	path   string
	parser Parser
}

var (
	_ FileLoader   = (*FileSource)(nil)
	_ ReaderLoader = (*FileSource)(nil)
)

// ForFormat creates a loader without a path, for decoding data from
// readers such as stdin.
func ForFormat(f Format) *FileSource {
	return &FileSource{fs: DefaultFS(), parser: ParserFor(f)}
}

// ForPath creates a loader for path, choosing the parser by extension.
func ForPath(path string) *FileSource {
	return ForPathWithFS(DefaultFS(), path)
}

// ForPathWithFS creates a loader with a custom file system.
func ForPathWithFS(fsys FileSystem, path string) *FileSource {
	return &FileSource{
		fs:     fsys,
		path:   path,
		parser: ParserFor(FormatOf(path)),
	}
}

// Path returns the configured path.
func (l *FileSource) Path() string {
	return l.path
}

// Load reads settings from the configured path.
func (l *FileSource) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads settings from a specific path using the configured parser.
func (l *FileSource) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return l.parser.Parse(path, data)
}

// LoadFromReader reads settings from an io.Reader.
func (l *FileSource) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return l.parser.Parse("<reader>", data)
}

// ParseError represents an error while parsing a data file.
type ParseError struct {
	// Path is the source that failed to parse.
	Path string
	// Line and Column locate the error when the parser reports them.
	Line   int
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
