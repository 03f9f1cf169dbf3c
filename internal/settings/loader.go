package settings

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileLoader reads a settings file into a generic map. A missing file
// is not an error; loaders return nil, nil for it.
type FileLoader interface {
	// LoadFrom reads settings from a specific path.
	LoadFrom(path string) (map[string]any, error)
}

// FileSystem is an abstraction for file system reads, allowing tests
// to substitute an in-memory file system.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// TOMLLoader loads settings from TOML files.
type TOMLLoader struct {
	fs FileSystem
}

// NewTOMLLoader creates a TOML loader backed by the given file system.
func NewTOMLLoader(fsys FileSystem) *TOMLLoader {
	return &TOMLLoader{fs: fsys}
}

// LoadFrom reads settings from a specific path.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readSettingsFile(l.fs, path)
	if data == nil || err != nil {
		return nil, err
	}

	var out map[string]any
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return out, nil
}

// JSONLoader loads settings from JSON files.
type JSONLoader struct {
	fs FileSystem
}

// NewJSONLoader creates a JSON loader backed by the given file system.
func NewJSONLoader(fsys FileSystem) *JSONLoader {
	return &JSONLoader{fs: fsys}
}

// LoadFrom reads settings from a specific path.
func (l *JSONLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readSettingsFile(l.fs, path)
	if data == nil || err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return out, nil
}

// YAMLLoader loads settings from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoader creates a YAML loader backed by the given file system.
func NewYAMLLoader(fsys FileSystem) *YAMLLoader {
	return &YAMLLoader{fs: fsys}
}

// LoadFrom reads settings from a specific path.
func (l *YAMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readSettingsFile(l.fs, path)
	if data == nil || err != nil {
		return nil, err
	}

	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return out, nil
}

// ForFile returns the loader matching the file extension, or an error
// for unsupported formats.
func ForFile(fsys FileSystem, path string) (FileLoader, error) {
	switch filepath.Ext(path) {
	case ".toml":
		return NewTOMLLoader(fsys), nil
	case ".json":
		return NewJSONLoader(fsys), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(fsys), nil
	default:
		return nil, fmt.Errorf("unsupported settings format: %s", path)
	}
}

// readSettingsFile reads a file, mapping "does not exist" to nil, nil.
func readSettingsFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return data, nil
}
