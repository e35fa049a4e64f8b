package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/knoldeck/internal/ankitest"
	"github.com/conorfennell/knoldeck/internal/apperr"
	"github.com/conorfennell/knoldeck/internal/catalog"
)

func newSyncer(t *testing.T) (*Syncer, *catalog.Catalog) {
	t.Helper()
	c := catalog.New(filepath.Join(t.TempDir(), "decks"), nil)
	return New(c, nil), c
}

func deckNames(t *testing.T, c *catalog.Catalog) []string {
	t.Helper()
	decks, err := c.List(context.Background())
	require.NoError(t, err)
	var names []string
	for _, d := range decks {
		names = append(names, d.Name)
	}
	return names
}

func TestImportDir(t *testing.T) {
	src := t.TempDir()
	ankitest.WritePackage(t, filepath.Join(src, "french.apkg"), ankitest.Deck(1, "French", 3), nil)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	ankitest.WritePackage(t, filepath.Join(src, "nested", "Capitals.APKG"), ankitest.Deck(2, "Capitals", 2), nil)
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("ignored"), 0o644))

	s, c := newSyncer(t)
	report, err := s.ImportDir(context.Background(), src)
	require.NoError(t, err)

	assert.Len(t, report.Imported, 2)
	assert.False(t, report.Failed())
	assert.Equal(t, []string{"Capitals", "French"}, deckNames(t, c))
}

func TestImportDirCollectsFailures(t *testing.T) {
	src := t.TempDir()
	ankitest.WritePackage(t, filepath.Join(src, "good.apkg"), ankitest.Deck(1, "Good", 1), nil)
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.apkg"), []byte("not a zip"), 0o644))

	s, c := newSyncer(t)
	report, err := s.ImportDir(context.Background(), src)
	require.NoError(t, err)

	assert.Len(t, report.Imported, 1)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0], apperr.ErrImport)
	assert.Contains(t, report.Errors[0].Error(), "broken.apkg")
	assert.Equal(t, []string{"Good"}, deckNames(t, c))
}

func TestImportDirSkipsDecksRoot(t *testing.T) {
	src := t.TempDir()
	ankitest.WritePackage(t, filepath.Join(src, "a.apkg"), ankitest.Deck(1, "A", 1), nil)

	c := catalog.New(filepath.Join(src, "decks"), nil)
	s := New(c, nil)

	_, err := s.ImportDir(context.Background(), src)
	require.NoError(t, err)
	// A second run must not pick up anything the first one extracted.
	require.NoError(t, os.WriteFile(filepath.Join(src, "decks", "stray.apkg"), []byte("x"), 0o644))
	report, err := s.ImportDir(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, report.Imported, 1)
	assert.Empty(t, report.Errors)
}

func TestImportDirMissing(t *testing.T) {
	s, _ := newSyncer(t)
	_, err := s.ImportDir(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestImportDirCancelled(t *testing.T) {
	src := t.TempDir()
	ankitest.WritePackage(t, filepath.Join(src, "a.apkg"), ankitest.Deck(1, "A", 1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, c := newSyncer(t)
	report, err := s.ImportDir(ctx, src)
	require.NoError(t, err)
	assert.Empty(t, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0], context.Canceled)
	assert.Empty(t, deckNames(t, c))
}

func TestImportGit(t *testing.T) {
	repoDir := t.TempDir()
	ankitest.WritePackage(t, filepath.Join(repoDir, "french.apkg"), ankitest.Deck(1, "French", 2), nil)
	ankitest.WritePackage(t, filepath.Join(repoDir, "untracked.apkg"), ankitest.Deck(2, "Untracked", 1), nil)

	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("french.apkg")
	require.NoError(t, err)
	_, err = wt.Commit("add french", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)

	s, c := newSyncer(t)
	report, err := s.ImportGit(context.Background(), repoDir)
	require.NoError(t, err)

	assert.Len(t, report.Imported, 1)
	assert.Empty(t, report.Errors)
	assert.Equal(t, []string{"French"}, deckNames(t, c))
}

func TestImportGitNotARepo(t *testing.T) {
	s, _ := newSyncer(t)
	_, err := s.ImportGit(context.Background(), t.TempDir())
	assert.Error(t, err)
}
