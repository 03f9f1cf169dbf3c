// Package extension implements the dang language extension: the
// adapter the editor host invokes to launch and configure the dang
// language server.
//
// The adapter is boundary glue by design. It locates the externally
// installed dang binary on the worktree's search path, produces the
// command that runs it in LSP mode, and forwards two blocks of
// configuration from the settings store. It performs no protocol
// handling, no process management, and no validation; all of that
// belongs to the host and to the server process.
package extension

import (
	"errors"

	"github.com/dang-lang/dang-extension/internal/host"
	"github.com/dang-lang/dang-extension/internal/settings"
)

const (
	// ServerName is the language-server name settings are keyed under.
	ServerName = "dang"

	// serverBinary is the executable searched for on the worktree path.
	serverBinary = "dang"

	// lspFlag tells the dang binary to run as a language server over
	// stdio instead of its other modes.
	lspFlag = "--lsp"
)

// ErrBinaryNotFound is the only failure in the adapter. The message is
// surfaced verbatim to the user by the host.
var ErrBinaryNotFound = errors.New("Unable to find dang binary in PATH")

// DangExtension implements host.Extension for the dang language
// server. It holds no state beyond its settings store handle; every
// call re-reads external state, so results track the file system and
// settings store without a staleness window.
type DangExtension struct {
	store *settings.Store
}

// Option configures a DangExtension.
type Option func(*DangExtension)

// WithStore substitutes the settings store the adapter reads from.
func WithStore(store *settings.Store) Option {
	return func(e *DangExtension) {
		e.store = store
	}
}

// New creates the extension. Without options it reads settings from
// the default store locations.
func New(opts ...Option) *DangExtension {
	e := &DangExtension{}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = settings.NewStore()
	}
	return e
}

// LanguageServerCommand resolves the launch command for the dang
// server by searching the worktree's executable path. The server
// identity is accepted for interface symmetry but does not affect
// command resolution.
func (e *DangExtension) LanguageServerCommand(_ host.ServerID, wt host.Worktree) (host.Command, error) {
	path, ok := wt.Which(serverBinary)
	if !ok {
		return host.Command{}, ErrBinaryNotFound
	}
	return host.Command{
		Command: path,
		Args:    []string{lspFlag},
		Env:     map[string]string{},
	}, nil
}

// LanguageServerInitializationOptions resolves the initialization
// options configured for this server, defaulting to an empty structure
// when settings are absent or unreadable. It never fails.
func (e *DangExtension) LanguageServerInitializationOptions(id host.ServerID, wt host.Worktree) (map[string]any, error) {
	return e.store.Resolve(settings.FieldInitializationOptions, id.Name(), wt), nil
}

// LanguageServerWorkspaceConfiguration resolves the workspace
// configuration for this server under the same never-fails policy.
func (e *DangExtension) LanguageServerWorkspaceConfiguration(id host.ServerID, wt host.Worktree) (map[string]any, error) {
	return e.store.Resolve(settings.FieldWorkspaceConfiguration, id.Name(), wt), nil
}
