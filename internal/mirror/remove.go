package mirror

import (
	"fmt"
	"io/fs"
	"os"
)

// RemoveStale guarantees the destination path is absent, whatever it
// currently is. A missing path is a silent no-op. A symbolic link is removed
// with os.Remove so the link target is never touched: an older mirroring
// strategy created symlinks here, and removing "through" one would delete
// the original source content instead of the placeholder. Anything else is
// removed recursively.
func RemoveStale(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: lstat %s: %w", ErrStaleRemovalFailed, path, err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("%w: remove symlink %s: %w", ErrStaleRemovalFailed, path, err)
		}
		return nil
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrStaleRemovalFailed, path, err)
	}
	return nil
}
