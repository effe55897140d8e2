package store

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReindexCreatesRelativeSymlink(t *testing.T) {
	s := New(t.TempDir())
	revDir := writeRevision(t, s, testPR, 1, "abc1234567890abc1234567890abc1234567890a")
	date := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Reindex(date, revDir))

	entry := filepath.Join(s.ByDateDir(), "2026-08-31.100.alice.fix_off_by_one.1")
	target, err := os.Readlink(entry)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "100.alice.fix_off_by_one", "1.abc1234"), target)

	// The link resolves to the revision directory.
	resolved, err := filepath.EvalSymlinks(entry)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(revDir)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
}

func TestReindexReplacesExistingEntry(t *testing.T) {
	s := New(t.TempDir())
	revDir := writeRevision(t, s, testPR, 1, "abc1234567890abc1234567890abc1234567890a")
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Reindex(date, revDir))
	require.NoError(t, s.Reindex(date, revDir))

	entries, err := os.ReadDir(s.ByDateDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeletingIndexEntryKeepsRevision(t *testing.T) {
	s := New(t.TempDir())
	revDir := writeRevision(t, s, testPR, 1, "abc1234567890abc1234567890abc1234567890a")
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Reindex(date, revDir))

	entry := filepath.Join(s.ByDateDir(), IndexEntryName(date, revDir))
	require.NoError(t, os.Remove(entry))

	_, err := os.Stat(revDir)
	assert.NoError(t, err)
}

func TestRebuildIndexReconstructsView(t *testing.T) {
	s := New(t.TempDir())
	rev1 := writeRevision(t, s, testPR, 1, "abc1234567890abc1234567890abc1234567890a")
	rev2 := writeRevision(t, s, testPR, 2, "def4567890abcdef4567890abcdef4567890abcd")
	other := PullRequest{Number: 205, Author: "bob", Title: "Refactor mempool"}
	rev3 := writeRevision(t, s, other, 1, "0123456789abcdef0123456789abcdef01234567")

	for _, dir := range []string{rev1, rev2, rev3} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.NoError(t, s.Reindex(info.ModTime(), dir))
	}
	before := indexMappings(t, s)

	// Blow the whole derived view away and rebuild it from the primary store.
	require.NoError(t, os.RemoveAll(s.ByDateDir()))
	n, err := s.RebuildIndex()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, before, indexMappings(t, s))
}

func TestRebuildIndexDropsStaleEntries(t *testing.T) {
	s := New(t.TempDir())
	revDir := writeRevision(t, s, testPR, 1, "abc1234567890abc1234567890abc1234567890a")
	info, err := os.Stat(revDir)
	require.NoError(t, err)
	require.NoError(t, s.Reindex(info.ModTime(), revDir))

	// Stale link: its target revision directory is gone.
	stale := filepath.Join(s.ByDateDir(), "2020-01-01.9.zoe.gone.1")
	require.NoError(t, os.Symlink(filepath.Join("..", "9.zoe.gone", "1.0000000"), stale))

	_, err = s.RebuildIndex()
	require.NoError(t, err)

	_, err = os.Lstat(stale)
	assert.True(t, os.IsNotExist(err))
	mappings := indexMappings(t, s)
	assert.Len(t, mappings, 1)
}

// indexMappings returns the by-date area as a sorted "name -> target" list.
func indexMappings(t *testing.T, s *Store) []string {
	t.Helper()
	entries, err := os.ReadDir(s.ByDateDir())
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join(s.ByDateDir(), e.Name()))
		require.NoError(t, err)
		out = append(out, e.Name()+" -> "+target)
	}
	sort.Strings(out)
	return out
}
