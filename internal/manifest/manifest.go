// Package manifest computes deterministic content manifests for mirrored trees.
//
// The manifest applies the same exclusion policy as the mirror itself, so a
// source tree and its freshly mirrored destination hash identically. This
// backs the verify command and the tree hash recorded per run.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/coursemirror/internal/mirror"
)

// FileEntry represents a single file in the manifest.
type FileEntry struct {
	RelativePath string `json:"relative_path"`
	Size         int64  `json:"size"`
	ContentHash  string `json:"content_hash"`
}

// TreeManifest represents the mirrored content of one or more module trees.
type TreeManifest struct {
	Files []FileEntry `json:"files"`
	Hash  string      `json:"hash"`
}

// BuildTree walks root and produces a manifest of every file the mirror
// would copy, with entries sorted by relative path for determinism.
func BuildTree(root string, policy *mirror.Policy) (*TreeManifest, error) {
	var entries []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		switch policy.Decide(d) {
		case mirror.DecisionSkip:
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		case mirror.DecisionRecurse:
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		hash, size, err := hashFile(path)
		if err != nil {
			return fmt.Errorf("hash %s: %w", path, err)
		}
		entries = append(entries, FileEntry{
			RelativePath: filepath.ToSlash(rel),
			Size:         size,
			ContentHash:  hash,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})

	return &TreeManifest{Files: entries, Hash: computeHash(entries)}, nil
}

// computeHash folds the sorted entries into a single deterministic hash.
func computeHash(entries []FileEntry) string {
	if len(entries) == 0 {
		h := sha256.Sum256([]byte("empty-tree"))
		return hex.EncodeToString(h[:])
	}
	h := sha256.New()
	for _, entry := range entries {
		fmt.Fprintf(h, "%s|%d|%s\n", entry.RelativePath, entry.Size, entry.ContentHash)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// FileCount returns the number of files in the manifest.
func (m *TreeManifest) FileCount() int {
	return len(m.Files)
}

// ToJSON serializes the manifest to JSON.
func (m *TreeManifest) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Diff returns the relative paths present in exactly one of the two
// manifests, or present in both with differing content.
func Diff(a, b *TreeManifest) []string {
	byPath := make(map[string]string, len(a.Files))
	for _, f := range a.Files {
		byPath[f.RelativePath] = f.ContentHash
	}

	var diffs []string
	seen := make(map[string]struct{}, len(b.Files))
	for _, f := range b.Files {
		seen[f.RelativePath] = struct{}{}
		if hash, ok := byPath[f.RelativePath]; !ok || hash != f.ContentHash {
			diffs = append(diffs, f.RelativePath)
		}
	}
	for _, f := range a.Files {
		if _, ok := seen[f.RelativePath]; !ok {
			diffs = append(diffs, f.RelativePath)
		}
	}
	sort.Strings(diffs)
	return diffs
}
