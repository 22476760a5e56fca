package memory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryMapsUnknownToContext(t *testing.T) {
	assert.Equal(t, CategoryRule, ParseCategory("rule"))
	assert.Equal(t, CategoryContext, ParseCategory("nonsense"))
	assert.Equal(t, CategoryContext, ParseCategory(""))
}

func TestOpenCreatesMemoryDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := Open(fs, "/project")
	require.NoError(t, err)

	exists, err := afero.DirExists(fs, store.dir)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAppendThenRecallRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := Open(fs, "/project")
	require.NoError(t, err)

	_, err = store.Append(CategoryRule, "use tabs")
	require.NoError(t, err)

	recall, err := store.Recall()
	require.NoError(t, err)
	assert.Contains(t, recall, "use tabs")
	assert.Contains(t, recall, "Rules:")
}

func TestRecallEmptyStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := Open(fs, "/project")
	require.NoError(t, err)

	recall, err := store.Recall()
	require.NoError(t, err)
	assert.Equal(t, emptyRecallText, recall)
}

func TestAppendNEntriesParsesBackExactlyN(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := Open(fs, "/project")
	require.NoError(t, err)

	contents := []string{"one", "two", "three", "four"}
	for _, c := range contents {
		_, err := store.Append(CategoryPattern, c)
		require.NoError(t, err)
	}

	entries, err := store.parseCategoryFile(CategoryPattern)
	require.NoError(t, err)
	require.Len(t, entries, len(contents))
	assert.Equal(t, contents, entries)
}

func TestMetadataTotalEntriesMatchesBulletCount(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	fs := afero.NewMemMapFs()
	store, err := Open(fs, "/project")
	require.NoError(t, err)

	_, err = store.Append(CategoryRule, "a")
	require.NoError(t, err)
	_, err = store.Append(CategoryContext, "b")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, store.dir+"/metadata.json")
	require.NoError(t, err)

	var meta Metadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, 2, meta.TotalEntries)
	assert.Equal(t, "/project", meta.ProjectPath)
}

func TestParseCategoryFileIgnoresNonBulletLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := Open(fs, "/project")
	require.NoError(t, err)

	path := store.dir + "/context.md"
	require.NoError(t, afero.WriteFile(fs, path, []byte("# Context\n\nnot a bullet\n- real entry\n-\n"), 0o644))

	entries, err := store.parseCategoryFile(CategoryContext)
	require.NoError(t, err)
	assert.Equal(t, []string{"real entry"}, entries)
}
