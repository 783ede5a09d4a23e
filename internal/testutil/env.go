// Package testutil isolates zerb-bootstrap tests from the real machine.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

// Dirs are the per-test directories created by SetupTestEnv.
type Dirs struct {
	Root   string
	Config string
	State  string
	Cache  string
}

// SetupTestEnv points every directory and setting the bootstrap consults at
// a fresh temp tree, so tests never read the user's config or take their
// lock. Variables are restored by t.Setenv and the tree by t.TempDir.
func SetupTestEnv(t *testing.T) Dirs {
	t.Helper()

	root := t.TempDir()
	d := Dirs{
		Root:   root,
		Config: filepath.Join(root, "config"),
		State:  filepath.Join(root, "state"),
		Cache:  filepath.Join(root, "cache"),
	}

	t.Setenv("XDG_CONFIG_HOME", d.Config)
	t.Setenv("XDG_STATE_HOME", d.State)
	t.Setenv("XDG_CACHE_HOME", d.Cache)
	t.Setenv("ZERB_BOOTSTRAP_STATE_DIR", filepath.Join(d.State, "zerb-bootstrap"))
	t.Setenv("ZERB_BOOTSTRAP_CACHE_DIR", filepath.Join(d.Cache, "zerb-bootstrap"))

	for _, name := range []string{"ZERB_DEBUG", "ZERB_BOOTSTRAP_CONFIG", "ZERB_BOOTSTRAP_BRANCH"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	for _, dir := range []string{d.Config, d.State, d.Cache} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return d
}
