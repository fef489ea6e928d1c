package modules

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/coursemirror/internal/logfields"
)

// Module represents a discovered top-level course module directory.
type Module struct {
	Name string // Directory base name, e.g. "Module-01-Intro"
	Path string // Absolute source path
}

// Discover lists the directories directly under root whose name begins with
// prefix, sorted lexicographically. The zero-padded naming convention makes
// the lexicographic order the intended module sequence.
//
// An unreadable root or an empty result is a fatal configuration error:
// the destination site would otherwise build with no content.
func Discover(root, prefix string) ([]Module, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceRootUnreadable, root, err)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceRootUnreadable, absRoot, err)
	}

	var found []Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		found = append(found, Module{
			Name: entry.Name(),
			Path: filepath.Join(absRoot, entry.Name()),
		})
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: no directories matching prefix %q under %s", ErrNoModules, prefix, absRoot)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	slog.Debug("Discovered course modules",
		logfields.Source(absRoot),
		slog.Int("count", len(found)))

	return found, nil
}

// Names returns just the module names, in discovery order.
func Names(mods []Module) []string {
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name)
	}
	return names
}
