package modules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverReturnsSortedModules(t *testing.T) {
	root := t.TempDir()

	// Create in deliberately scrambled creation order.
	for _, name := range []string{"Module-10-Capstone", "Module-01-Intro", "Module-02-Basics"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}
	// Non-matching entries are ignored.
	if err := os.Mkdir(filepath.Join(root, "website"), 0o755); err != nil {
		t.Fatalf("mkdir website: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "Module-99-NotADir.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	mods, err := Discover(root, "Module-")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{"Module-01-Intro", "Module-02-Basics", "Module-10-Capstone"}
	got := Names(mods)
	if len(got) != len(want) {
		t.Fatalf("expected %d modules, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q want %q", i, got[i], want[i])
		}
	}
	for _, m := range mods {
		if !filepath.IsAbs(m.Path) {
			t.Errorf("expected absolute path, got %q", m.Path)
		}
	}
}

func TestDiscoverNoModulesIsFatal(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "website"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := Discover(root, "Module-")
	if !errors.Is(err, ErrNoModules) {
		t.Fatalf("expected ErrNoModules, got %v", err)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"), "Module-")
	if !errors.Is(err, ErrSourceRootUnreadable) {
		t.Fatalf("expected ErrSourceRootUnreadable, got %v", err)
	}
}
