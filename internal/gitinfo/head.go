// Package gitinfo resolves source provenance for mirror runs.
package gitinfo

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// HeadRevision returns the HEAD commit hash of the git repository at root.
// Callers treat a failure as "no provenance available" rather than fatal:
// the source tree does not have to be a git repository to be mirrored.
func HeadRevision(root string) (string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", root, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD in %s: %w", root, err)
	}
	return head.Hash().String(), nil
}
