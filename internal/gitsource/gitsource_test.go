package gitsource

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
	}
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("add decks", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)
}

func TestPackages(t *testing.T) {
	dir := t.TempDir()
	commitFiles(t, dir, map[string]string{
		"README.md":             "decks",
		"languages/french.apkg": "french package",
		"geo/Capitals.APKG":     "capitals package",
	})

	packages, err := Packages(dir)
	require.NoError(t, err)
	require.Len(t, packages, 2)

	byPath := map[string]Package{}
	for _, p := range packages {
		byPath[p.Path] = p
	}
	require.Contains(t, byPath, "languages/french.apkg")
	require.Contains(t, byPath, "geo/Capitals.APKG")

	french := byPath["languages/french.apkg"]
	assert.Equal(t, int64(len("french package")), french.Size)
	assert.Len(t, french.Hash, 40)

	rc, err := french.Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "french package", string(content))
}

func TestPackagesReadsCommittedContentOnly(t *testing.T) {
	dir := t.TempDir()
	commitFiles(t, dir, map[string]string{"deck.apkg": "v1"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deck.apkg"), []byte("uncommitted"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.apkg"), []byte("untracked"), 0o644))

	packages, err := Packages(dir)
	require.NoError(t, err)
	require.Len(t, packages, 1)

	rc, err := packages[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))
}

func TestPackagesErrors(t *testing.T) {
	_, err := Packages(t.TempDir())
	assert.Error(t, err, "plain directory is not a repository")

	empty := t.TempDir()
	_, err = git.PlainInit(empty, false)
	require.NoError(t, err)
	_, err = Packages(empty)
	assert.Error(t, err, "repository without commits has no HEAD")
}
