// Package settings implements the host's settings store: the
// repository of user and workspace configuration that language
// extensions query by (server name, worktree).
//
// # Layout
//
// Settings live in two layers, merged with project values overriding
// user values:
//
//   - user layer: <user config dir>/dang/settings.{toml,json,yaml,yml}
//   - project layer: <worktree root>/.dang/settings.{toml,json,yaml,yml}
//
// Within a layer the first existing file in the order above wins.
// Language-server blocks are addressed by the dot path
// "lsp.<server>", with two independently optional fields:
//
//	[lsp.dang]
//	initialization_options = { ... }
//	settings = { ... }
//
// # Resolution policy
//
// Store lookups can fail (unreadable layer, malformed file). The
// Resolve combinator makes the never-fails contract of the extension
// operations explicit: any lookup failure or absent field resolves to
// an empty structure. Failures are logged so "store unreachable" stays
// distinguishable from "field genuinely absent" without changing the
// contract.
//
// The store holds no cache; every resolution re-reads the layers.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/dang-lang/dang-extension/internal/host"
)

var log = commonlog.GetLogger("dang.settings")

// ProjectDirName is the project-relative directory holding the
// project settings layer.
const ProjectDirName = ".dang"

// fileNames are the settings file names probed within a layer, in
// priority order.
var fileNames = []string{
	"settings.toml",
	"settings.json",
	"settings.yaml",
	"settings.yml",
}

// Settings field names within an "lsp.<server>" block.
const (
	fieldInitializationOptions  = "initialization_options"
	fieldWorkspaceConfiguration = "settings"
)

// LspSettings is the settings record for one language server. Both
// fields are independently optional; a nil field means the block did
// not configure it.
type LspSettings struct {
	// InitializationOptions are sent with the initialize request.
	InitializationOptions map[string]any

	// Settings are sent via workspace/configuration.
	Settings map[string]any
}

// Field selects which LspSettings field Resolve extracts.
type Field int

const (
	// FieldInitializationOptions selects InitializationOptions.
	FieldInitializationOptions Field = iota

	// FieldWorkspaceConfiguration selects Settings.
	FieldWorkspaceConfiguration
)

// String returns the settings-file key for the field.
func (f Field) String() string {
	switch f {
	case FieldInitializationOptions:
		return fieldInitializationOptions
	case FieldWorkspaceConfiguration:
		return fieldWorkspaceConfiguration
	default:
		return "unknown"
	}
}

// Store reads layered settings for language servers. It is stateless
// between calls and safe for concurrent use.
type Store struct {
	fs      FileSystem
	userDir string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithFileSystem substitutes the file system used for reads.
func WithFileSystem(fsys FileSystem) StoreOption {
	return func(s *Store) {
		s.fs = fsys
	}
}

// WithUserDir overrides the user settings layer directory.
func WithUserDir(dir string) StoreOption {
	return func(s *Store) {
		s.userDir = dir
	}
}

// NewStore creates a settings store. Without options it reads from the
// OS file system, with the user layer under os.UserConfigDir()/dang.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{fs: DefaultFS()}
	for _, opt := range opts {
		opt(s)
	}
	if s.userDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			s.userDir = filepath.Join(dir, "dang")
		}
	}
	return s
}

// LayerDirs returns the directories holding this worktree's settings
// layers, lowest precedence first. Used by the watcher.
func (s *Store) LayerDirs(wt host.Worktree) []string {
	dirs := make([]string, 0, 2)
	if s.userDir != "" {
		dirs = append(dirs, s.userDir)
	}
	dirs = append(dirs, filepath.Join(wt.Root(), ProjectDirName))
	return dirs
}

// ForWorktree looks up the LspSettings record for the given server in
// the given worktree. Absence of the record or of either field is not
// an error; only an unreadable or malformed layer is.
func (s *Store) ForWorktree(server string, wt host.Worktree) (LspSettings, error) {
	merged, err := s.load(wt)
	if err != nil {
		return LspSettings{}, err
	}

	block, ok := lookupPath(merged, "lsp."+server)
	if !ok {
		return LspSettings{}, nil
	}
	blockMap, ok := block.(map[string]any)
	if !ok {
		return LspSettings{}, fmt.Errorf("lsp.%s is not a table", server)
	}

	return LspSettings{
		InitializationOptions: fieldMap(blockMap, fieldInitializationOptions),
		Settings:              fieldMap(blockMap, fieldWorkspaceConfiguration),
	}, nil
}

// Resolve extracts the requested field for the given server, mapping
// any lookup failure or absence to an empty structure. It never fails
// and never returns nil.
func (s *Store) Resolve(field Field, server string, wt host.Worktree) map[string]any {
	ls, err := s.ForWorktree(server, wt)
	if err != nil {
		log.Warningf("settings lookup for %q failed, using empty defaults: %s", server, err.Error())
		return map[string]any{}
	}

	var m map[string]any
	switch field {
	case FieldInitializationOptions:
		m = ls.InitializationOptions
	case FieldWorkspaceConfiguration:
		m = ls.Settings
	}
	if m == nil {
		log.Debugf("no %s configured for %q", field.String(), server)
		return map[string]any{}
	}
	return m
}

// load reads and merges the settings layers for a worktree.
func (s *Store) load(wt host.Worktree) (map[string]any, error) {
	merged := make(map[string]any)

	for _, dir := range s.LayerDirs(wt) {
		layer, err := s.loadLayer(dir)
		if err != nil {
			return nil, err
		}
		merged = mergeLayers(merged, layer)
	}
	return merged, nil
}

// loadLayer reads the first existing settings file in dir. A layer
// with no settings file is empty, not an error.
func (s *Store) loadLayer(dir string) (map[string]any, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)

		loader, err := ForFile(s.fs, path)
		if err != nil {
			return nil, err
		}
		layer, err := loader.LoadFrom(path)
		if err != nil {
			return nil, err
		}
		if layer != nil {
			return layer, nil
		}
	}
	return nil, nil
}

// fieldMap extracts a map-valued field, returning nil when the field
// is absent or not a map.
func fieldMap(block map[string]any, key string) map[string]any {
	val, ok := block[key]
	if !ok {
		return nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil
	}
	return m
}
