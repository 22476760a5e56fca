package memory

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindGitRootWalksAncestors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))
	require.NoError(t, fs.MkdirAll("/repo/a/b/c", 0o755))

	found, err := FindGitRoot(fs, "/repo/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, "/repo", found)
}

func TestFindGitRootFailsOutsideWorkingTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/tmp/lonely", 0o755))

	_, err := FindGitRoot(fs, "/tmp/lonely")
	require.Error(t, err)
}
