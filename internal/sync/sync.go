// Package sync imports every deck package found in a source tree or git repository.
package sync

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conorfennell/knoldeck/internal/catalog"
	"github.com/conorfennell/knoldeck/internal/gitsource"
)

// Report is the outcome of one bulk import. A failed package never stops
// the others.
type Report struct {
	Imported []string
	Errors   []error
}

// Failed reports whether any package failed to import.
func (r Report) Failed() bool {
	return len(r.Errors) > 0
}

// Syncer imports packages into a catalog.
type Syncer struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// New creates a Syncer importing into c.
func New(c *catalog.Catalog, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{catalog: c, logger: logger}
}

// ImportDir walks dir and imports every .apkg file below it. The returned
// error covers the walk itself; per-package failures land in the Report.
// The decks root is skipped when it lies inside dir.
func (s *Syncer) ImportDir(ctx context.Context, dir string) (Report, error) {
	s.logger.Info("starting directory sync", "path", dir)

	var paths []string
	root, _ := filepath.Abs(s.catalog.Root())
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), gitsource.PackageExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return Report{}, fmt.Errorf("failed to walk %s: %w", dir, walkErr)
	}

	var report Report
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, err)
			break
		}
		deckDir, err := s.catalog.ImportFile(path)
		if err != nil {
			s.logger.Warn("failed to import package", "source", path, "error", err)
			report.Errors = append(report.Errors, fmt.Errorf("importing %s: %w", path, err))
			continue
		}
		report.Imported = append(report.Imported, deckDir)
	}

	s.logSummary("directory sync complete", dir, len(paths), report)
	return report, nil
}

// ImportGit imports every .apkg file tracked at HEAD of the local repository
// at repoPath. Working tree changes are ignored.
func (s *Syncer) ImportGit(ctx context.Context, repoPath string) (Report, error) {
	s.logger.Info("starting git sync", "repo", repoPath)

	packages, err := gitsource.Packages(repoPath)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, err)
			break
		}
		deckDir, err := s.importPackage(pkg)
		if err != nil {
			s.logger.Warn("failed to import package", "source", pkg.Path, "blob", pkg.Hash, "error", err)
			report.Errors = append(report.Errors, fmt.Errorf("importing %s: %w", pkg.Path, err))
			continue
		}
		report.Imported = append(report.Imported, deckDir)
	}

	s.logSummary("git sync complete", repoPath, len(packages), report)
	return report, nil
}

func (s *Syncer) importPackage(pkg gitsource.Package) (string, error) {
	rc, err := pkg.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return s.catalog.Import(rc, pkg.Path)
}

func (s *Syncer) logSummary(msg, source string, found int, report Report) {
	s.logger.Info(msg,
		"path", source,
		"packages_found", found,
		"imported", len(report.Imported),
		"errors", len(report.Errors),
	)
}
