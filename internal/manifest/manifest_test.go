package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/coursemirror/internal/mirror"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestBuildTreeDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":    "readme",
		"a/lesson.md":  "lesson",
		"b/notes.md":   "notes",
		"a/z/assets":   "asset bytes",
		".git/config":  "excluded",
		"node_modules": "excluded file name",
	})
	policy := mirror.NewPolicy([]string{".git", "node_modules"})

	m1, err := BuildTree(root, policy)
	require.NoError(t, err)
	m2, err := BuildTree(root, policy)
	require.NoError(t, err)

	assert.Equal(t, m1.Hash, m2.Hash)
	assert.Equal(t, 4, m1.FileCount())
	for _, f := range m1.Files {
		assert.NotContains(t, f.RelativePath, ".git")
		assert.NotContains(t, f.RelativePath, "node_modules")
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	policy := mirror.NewPolicy(nil)
	m, err := BuildTree(t.TempDir(), policy)
	require.NoError(t, err)
	assert.Equal(t, 0, m.FileCount())
	assert.NotEmpty(t, m.Hash)
}

func TestSourceAndMirroredTreeHashEqual(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeFiles(t, src, map[string]string{
		"README.md":           "readme",
		"lessons/01.md":       "one",
		"node_modules/x/y.js": "cache",
	})
	policy := mirror.NewPolicy([]string{"node_modules", ".git"})

	_, err := mirror.CopyTree(context.Background(), policy, src, dst)
	require.NoError(t, err)

	srcManifest, err := BuildTree(src, policy)
	require.NoError(t, err)
	dstManifest, err := BuildTree(dst, policy)
	require.NoError(t, err)

	assert.Equal(t, srcManifest.Hash, dstManifest.Hash)
	assert.Empty(t, Diff(srcManifest, dstManifest))
}

func TestDiffReportsChanges(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFiles(t, a, map[string]string{
		"same.md":    "same",
		"changed.md": "old",
		"only-a.md":  "a",
	})
	writeFiles(t, b, map[string]string{
		"same.md":    "same",
		"changed.md": "new",
		"only-b.md":  "b",
	})
	policy := mirror.NewPolicy(nil)

	ma, err := BuildTree(a, policy)
	require.NoError(t, err)
	mb, err := BuildTree(b, policy)
	require.NoError(t, err)

	diffs := Diff(ma, mb)
	assert.Equal(t, []string{"changed.md", "only-a.md", "only-b.md"}, diffs)
}

func TestToJSONRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.md": "a"})
	m, err := BuildTree(root, mirror.NewPolicy(nil))
	require.NoError(t, err)

	data, err := m.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.md")
	assert.Contains(t, string(data), m.Hash)
}
