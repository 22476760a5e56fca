package memory

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FindGitRoot walks ancestors of path looking for a `.git` entry, returning
// the first ancestor that has one. Memory stores are deliberately anchored
// to git history rather than a transient working directory; there is no
// fallback to an unrelated location when the walk reaches the filesystem
// root.
func FindGitRoot(fs afero.Fs, path string) (string, error) {
	dir := path
	for {
		if exists, _ := afero.Exists(fs, filepath.Join(dir, ".git")); exists {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s is not inside a git working tree; run from within a project checked out with git", path)
		}
		dir = parent
	}
}
