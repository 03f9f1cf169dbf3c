// Package host defines the contract between the editor host and a
// language extension.
//
// The host owns the event loop and lifecycle: it instantiates an
// extension once per session and calls into it at well-defined moments
// (server start, initialize, workspace configuration). The extension
// never initiates action on its own. All handles the host passes in
// (Worktree, ServerID) are borrowed for the duration of a single call
// and must not be retained or mutated.
package host

// ServerID identifies a language-server instance. It is opaque to
// extensions except for Name, which keys settings lookups.
type ServerID struct {
	name     string
	instance string
}

// Name returns the language-server name (e.g. "dang").
func (id ServerID) Name() string { return id.name }

// String returns a unique representation of this server instance.
func (id ServerID) String() string {
	if id.instance == "" {
		return id.name
	}
	return id.name + "/" + id.instance
}

// Command describes how to launch a language-server process.
// The host spawns the process; extensions only produce the value.
type Command struct {
	// Command is the absolute or resolved path to the executable.
	Command string

	// Args are command-line arguments, in order.
	Args []string

	// Env are environment variable overrides applied on top of the
	// host's environment.
	Env map[string]string
}

// Worktree is the host's view of an open project directory.
type Worktree interface {
	// Root returns the absolute path of the project root.
	Root() string

	// Which searches the worktree's executable search path for a
	// binary with the given name. Returns the resolved path and true
	// if found.
	Which(name string) (string, bool)

	// ReadTextFile reads a file by path relative to the worktree root.
	ReadTextFile(path string) (string, error)
}

// Extension is the interface a language extension implements. The host
// invokes these entry points; implementations must be stateless with
// respect to their inputs and safe to call repeatedly.
type Extension interface {
	// LanguageServerCommand resolves the launch command for the given
	// server in the given worktree. This is the only operation in the
	// contract that may fail; the host surfaces the error to the user.
	LanguageServerCommand(id ServerID, wt Worktree) (Command, error)

	// LanguageServerInitializationOptions resolves the options sent
	// with the server's initialize request. Missing configuration is
	// not an error; implementations return an empty structure instead.
	LanguageServerInitializationOptions(id ServerID, wt Worktree) (map[string]any, error)

	// LanguageServerWorkspaceConfiguration resolves the configuration
	// sent via workspace/configuration. Same never-fails policy as
	// LanguageServerInitializationOptions.
	LanguageServerWorkspaceConfiguration(id ServerID, wt Worktree) (map[string]any, error)
}
