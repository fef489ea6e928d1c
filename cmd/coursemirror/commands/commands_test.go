package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/coursemirror/internal/config"
	"git.home.luguber.info/inful/coursemirror/internal/runlog"
)

func testConfig(t *testing.T, source, output string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Source.Root = source
	cfg.Source.ModulePrefix = config.DefaultModulePrefix
	cfg.Output.ContentDir = output
	cfg.Mirror.Exclude = config.DefaultExclude()
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "runs.db")
	return cfg
}

func seedModule(t *testing.T, source, module string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(source, module, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestRunMirrorEndToEnd(t *testing.T) {
	source := t.TempDir()
	output := filepath.Join(t.TempDir(), "content")
	seedModule(t, source, "Module-01-Intro", map[string]string{
		"README.md":         "# Intro",
		"lessons/01.md":     "first lesson",
		".git/config":       "excluded",
		"node_modules/a.js": "excluded",
	})
	cfg := testConfig(t, source, output)

	if err := RunMirror(context.Background(), cfg, source, output); err != nil {
		t.Fatalf("RunMirror failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(output, "Module-01-Intro", "README.md"))
	if err != nil {
		t.Fatalf("mirrored file missing: %v", err)
	}
	if string(data) != "# Intro" {
		t.Errorf("unexpected content %q", string(data))
	}
	if _, err := os.Stat(filepath.Join(output, "Module-01-Intro", ".git")); !os.IsNotExist(err) {
		t.Error(".git leaked into destination")
	}

	// The run must be recorded in history with a tree hash.
	store, err := runlog.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("open run log: %v", err)
	}
	defer store.Close()
	runs, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Status != runlog.StatusSuccess {
		t.Errorf("expected success status, got %q", runs[0].Status)
	}
	if runs[0].TreeHash == "" {
		t.Error("expected a tree hash in the run record")
	}
	if runs[0].Files != 2 {
		t.Errorf("expected 2 files recorded, got %d", runs[0].Files)
	}
}

func TestRunMirrorRecordsFailure(t *testing.T) {
	source := t.TempDir() // no modules at all
	output := filepath.Join(t.TempDir(), "content")
	cfg := testConfig(t, source, output)

	if err := RunMirror(context.Background(), cfg, source, output); err == nil {
		t.Fatal("expected failure for empty source root")
	}

	store, err := runlog.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("open run log: %v", err)
	}
	defer store.Close()
	runs, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != runlog.StatusFailed {
		t.Fatalf("expected one failed run record, got %+v", runs)
	}
}

func TestRunVerify(t *testing.T) {
	source := t.TempDir()
	output := filepath.Join(t.TempDir(), "content")
	seedModule(t, source, "Module-01-Intro", map[string]string{"README.md": "# Intro"})
	cfg := testConfig(t, source, output)

	if err := RunMirror(context.Background(), cfg, source, output); err != nil {
		t.Fatalf("RunMirror failed: %v", err)
	}
	if err := RunVerify(cfg, source, output); err != nil {
		t.Fatalf("expected clean verify, got %v", err)
	}

	// Introduce drift in the destination.
	if err := os.WriteFile(filepath.Join(output, "Module-01-Intro", "README.md"), []byte("tampered"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if err := RunVerify(cfg, source, output); err == nil {
		t.Fatal("expected verify to report drift")
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := &config.Config{}
	cfg.Source.Root = "/cfg/source"
	cfg.Output.ContentDir = "/cfg/output"

	source, output := ResolvePaths("", "", cfg)
	if source != "/cfg/source" || output != "/cfg/output" {
		t.Errorf("config values should win when flags empty: %s %s", source, output)
	}

	source, output = ResolvePaths("/cli/source", "/cli/output", cfg)
	if source != "/cli/source" || output != "/cli/output" {
		t.Errorf("CLI flags should win: %s %s", source, output)
	}
}

func TestRunInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursemirror.yaml")
	if err := RunInit(path, false); err != nil {
		t.Fatalf("RunInit failed: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Source.ModulePrefix != config.DefaultModulePrefix {
		t.Errorf("unexpected prefix %q", cfg.Source.ModulePrefix)
	}
}
