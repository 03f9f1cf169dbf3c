package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// fakeWorktree is a minimal host.Worktree over a temp directory.
type fakeWorktree struct {
	root string
}

func (w fakeWorktree) Root() string                { return w.root }
func (w fakeWorktree) Which(string) (string, bool) { return "", false }
func (w fakeWorktree) ReadTextFile(string) (string, error) {
	return "", os.ErrNotExist
}

// writeProjectSettings writes a project-layer settings file.
func writeProjectSettings(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, ProjectDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, dir, name, content)
}

// newTestStore returns a store whose user layer lives in a fresh temp
// dir, so host machine settings cannot leak into tests.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	userDir := t.TempDir()
	return NewStore(WithUserDir(userDir)), userDir
}

func TestStore_ForWorktreeNoSettings(t *testing.T) {
	store, _ := newTestStore(t)
	wt := fakeWorktree{root: t.TempDir()}

	ls, err := store.ForWorktree("dang", wt)
	if err != nil {
		t.Fatalf("ForWorktree failed: %v", err)
	}
	if ls.InitializationOptions != nil || ls.Settings != nil {
		t.Errorf("Expected empty record, got %+v", ls)
	}
}

func TestStore_ForWorktreeProjectLayer(t *testing.T) {
	store, _ := newTestStore(t)
	root := t.TempDir()
	writeProjectSettings(t, root, "settings.json",
		`{"lsp": {"dang": {"initialization_options": {"foo": 1}}}}`)

	ls, err := store.ForWorktree("dang", fakeWorktree{root: root})
	if err != nil {
		t.Fatalf("ForWorktree failed: %v", err)
	}

	if got := ls.InitializationOptions["foo"]; got != float64(1) {
		t.Errorf("Expected foo=1, got %v", got)
	}
	if ls.Settings != nil {
		t.Errorf("Expected no workspace settings, got %v", ls.Settings)
	}
}

func TestStore_ResolveSpecScenario(t *testing.T) {
	store, _ := newTestStore(t)
	root := t.TempDir()
	writeProjectSettings(t, root, "settings.json",
		`{"lsp": {"dang": {"initialization_options": {"foo": 1}}}}`)
	wt := fakeWorktree{root: root}

	initOpts := store.Resolve(FieldInitializationOptions, "dang", wt)
	if got := initOpts["foo"]; got != float64(1) {
		t.Errorf("Expected initialization options {foo: 1}, got %v", initOpts)
	}

	wsConfig := store.Resolve(FieldWorkspaceConfiguration, "dang", wt)
	if len(wsConfig) != 0 {
		t.Errorf("Expected empty workspace configuration, got %v", wsConfig)
	}
}

func TestStore_ResolveMissingIsEmptyNotNil(t *testing.T) {
	store, _ := newTestStore(t)
	wt := fakeWorktree{root: t.TempDir()}

	for _, field := range []Field{FieldInitializationOptions, FieldWorkspaceConfiguration} {
		got := store.Resolve(field, "dang", wt)
		if got == nil {
			t.Errorf("Expected empty map for %s, got nil", field)
		}
		if len(got) != 0 {
			t.Errorf("Expected empty map for %s, got %v", field, got)
		}
	}
}

func TestStore_ResolveMalformedFileIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	root := t.TempDir()
	writeProjectSettings(t, root, "settings.toml", "not [valid toml")
	wt := fakeWorktree{root: root}

	got := store.Resolve(FieldInitializationOptions, "dang", wt)
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty map for malformed settings, got %v", got)
	}
}

func TestStore_ResolveNonTableBlockIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	root := t.TempDir()
	writeProjectSettings(t, root, "settings.json", `{"lsp": {"dang": "oops"}}`)

	got := store.Resolve(FieldWorkspaceConfiguration, "dang", fakeWorktree{root: root})
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty map for non-table block, got %v", got)
	}
}

func TestStore_ProjectOverridesUser(t *testing.T) {
	store, userDir := newTestStore(t)
	writeFile(t, userDir, "settings.json",
		`{"lsp": {"dang": {"settings": {"trace": false, "theme": "dark"}}}}`)

	root := t.TempDir()
	writeProjectSettings(t, root, "settings.json",
		`{"lsp": {"dang": {"settings": {"trace": true}}}}`)

	got := store.Resolve(FieldWorkspaceConfiguration, "dang", fakeWorktree{root: root})
	if got["trace"] != true {
		t.Errorf("Expected project trace=true to win, got %v", got["trace"])
	}
	if got["theme"] != "dark" {
		t.Errorf("Expected user theme to survive merge, got %v", got["theme"])
	}
}

func TestStore_ResolveIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	root := t.TempDir()
	writeProjectSettings(t, root, "settings.json",
		`{"lsp": {"dang": {"initialization_options": {"foo": 1, "nested": {"a": [1, 2]}}}}}`)
	wt := fakeWorktree{root: root}

	first := store.Resolve(FieldInitializationOptions, "dang", wt)
	second := store.Resolve(FieldInitializationOptions, "dang", wt)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %v and %v", first, second)
	}
}

func TestStore_LayerDirs(t *testing.T) {
	store, userDir := newTestStore(t)
	root := t.TempDir()

	dirs := store.LayerDirs(fakeWorktree{root: root})
	want := []string{userDir, filepath.Join(root, ProjectDirName)}
	if !reflect.DeepEqual(dirs, want) {
		t.Errorf("LayerDirs = %v, want %v", dirs, want)
	}
}
