// Package gitsource reads deck packages tracked in a local git repository.
// Repositories are opened in place; nothing is cloned or fetched.
package gitsource

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// PackageExt is the file name ending of a deck package.
const PackageExt = ".apkg"

// Package is a deck package blob at the repository's HEAD commit.
type Package struct {
	Path string
	Hash string
	Size int64

	file *object.File
}

// Open returns a reader over the package contents.
func (p Package) Open() (io.ReadCloser, error) {
	rc, err := p.file.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.Path, err)
	}
	return rc, nil
}

// Packages lists every deck package in the tree of HEAD, in tree order.
func Packages(repoPath string) ([]Package, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repo at %s: %w", repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD for repo at %s: %w", repoPath, err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD commit %s: %w", head.Hash(), err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of commit %s: %w", head.Hash(), err)
	}

	var packages []Package
	err = tree.Files().ForEach(func(f *object.File) error {
		if !strings.HasSuffix(strings.ToLower(f.Name), PackageExt) {
			return nil
		}
		packages = append(packages, Package{
			Path: f.Name,
			Hash: f.Hash.String(),
			Size: f.Size,
			file: f,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk tree of commit %s: %w", head.Hash(), err)
	}
	return packages, nil
}
