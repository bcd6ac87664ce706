// Package provenance resolves source metadata about the package being built.
package provenance

import (
	git "github.com/go-git/go-git/v5"
)

// HeadCommit returns the HEAD commit hash of the repository containing path,
// or "" when path is not inside a git repository. Provenance is best-effort
// enrichment of the build report; lookup failures are never fatal.
func HeadCommit(path string) string {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
