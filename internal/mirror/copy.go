package mirror

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyStats accumulates per-tree copy counters.
type CopyStats struct {
	Files int
	Bytes int64
}

// CopyTree recreates dst as a directory and populates it with a recursive
// byte-for-byte copy of src, applying the exclusion policy per entry.
// Entries within a directory are processed one at a time; the context is
// checked between entries so a canceled run stops promptly.
func CopyTree(ctx context.Context, policy *Policy, src, dst string) (CopyStats, error) {
	var stats CopyStats
	if err := copyTree(ctx, policy, src, dst, &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

func copyTree(ctx context.Context, policy *Policy, src, dst string, stats *CopyStats) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrCopyFailed, src, err)
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrCopyFailed, dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrCopyFailed, src, err)
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch policy.Decide(entry) {
		case DecisionSkip:
			continue
		case DecisionRecurse:
			if err := copyTree(ctx, policy, srcPath, dstPath, stats); err != nil {
				return err
			}
		case DecisionCopy:
			n, err := copyFile(srcPath, dstPath)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrCopyFailed, srcPath, err)
			}
			stats.Files++
			stats.Bytes += n
		}
	}

	return nil
}

// copyFile copies a single file's bytes from src to dst and preserves its mode.
func copyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(dstFile, srcFile)
	if cerr := dstFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return n, err
	}
	return n, os.Chmod(dst, srcInfo.Mode().Perm())
}
