// Package worktree implements the host's project context: a view over
// an open project directory with an executable search path scoped to
// that project.
package worktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Errors returned by worktree operations.
var (
	// ErrNotDirectory indicates the worktree root is not a directory.
	ErrNotDirectory = errors.New("worktree root is not a directory")

	// ErrOutsideRoot indicates a path resolves outside the worktree.
	ErrOutsideRoot = errors.New("path escapes worktree root")
)

// localBinDirs are project-relative directories searched before the
// environment's search path, so project-pinned tools win over global
// installs.
var localBinDirs = []string{
	"bin",
	filepath.Join("node_modules", ".bin"),
}

// Worktree is a project directory opened by the host. It implements
// host.Worktree. All operations are read-only and re-read the file
// system on every call.
type Worktree struct {
	root string

	// searchPath overrides the PATH environment variable when set.
	searchPath []string
}

// Option configures a Worktree.
type Option func(*Worktree)

// WithSearchPath replaces the PATH-derived search path with an
// explicit directory list. Used by tests and by hosts that manage
// their own tool path.
func WithSearchPath(dirs []string) Option {
	return func(w *Worktree) {
		w.searchPath = dirs
	}
}

// New opens a worktree rooted at the given directory. The root is
// resolved to an absolute path and must exist.
func New(root string, opts ...Option) (*Worktree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving worktree root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening worktree root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}

	w := &Worktree{root: abs}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root returns the absolute path of the project root.
func (w *Worktree) Root() string { return w.root }

// Which searches the worktree's executable search path for a binary
// with the given name: project-local bin directories first, then the
// environment search path in order. Returns the first match that is a
// regular file with execute permission.
func (w *Worktree) Which(name string) (string, bool) {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return "", false
	}

	dirs := make([]string, 0, len(localBinDirs)+len(w.path()))
	for _, dir := range localBinDirs {
		dirs = append(dirs, filepath.Join(w.root, dir))
	}
	dirs = append(dirs, w.path()...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// ReadTextFile reads a file by path relative to the worktree root.
// Absolute paths and paths that resolve outside the root are rejected.
func (w *Worktree) ReadTextFile(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%s: %w", path, ErrOutsideRoot)
	}

	full := filepath.Join(w.root, path)
	rel, err := filepath.Rel(w.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%s: %w", path, ErrOutsideRoot)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// path returns the search path directories, either the configured
// override or the PATH environment variable split on the list
// separator.
func (w *Worktree) path() []string {
	if w.searchPath != nil {
		return w.searchPath
	}
	return filepath.SplitList(os.Getenv("PATH"))
}

// isExecutable reports whether path is a regular file with at least
// one execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
