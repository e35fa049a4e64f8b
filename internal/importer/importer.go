// Package importer unpacks deck packages into the managed decks root.
package importer

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/knoldeck/internal/apperr"
	"github.com/conorfennell/knoldeck/internal/id"
)

// DirPrefix starts the name of every deck directory created by Extract.
const DirPrefix = "deck_"

// now is replaced in tests.
var now = time.Now

// ExtractFile opens the package at path and extracts it under root.
func ExtractFile(path, root string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperr.Import("unable to read deck file", err)
	}
	defer f.Close()

	return Extract(f, root)
}

// Extract unpacks the zip archive read from src into a new deck directory
// under root and returns that directory. root is created if needed. On failure
// the deck directory is removed again.
//
// Directory names derive from the current time; two calls in the same
// millisecond fall back to a random suffix.
func Extract(src io.Reader, root string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", apperr.Import("failed to create decks root", err)
	}

	dir, err := makeDeckDir(root)
	if err != nil {
		return "", apperr.Import("failed to create deck directory", err)
	}

	if err := extractInto(src, root, dir); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return dir, nil
}

func makeDeckDir(root string) (string, error) {
	name := fmt.Sprintf("%s%d", DirPrefix, now().UnixMilli())
	dir := filepath.Join(root, name)
	err := os.Mkdir(dir, 0o755)
	if err == nil {
		return dir, nil
	}
	if !errors.Is(err, os.ErrExist) {
		return "", err
	}

	suffix, err := id.Suffix()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(root, name+"_"+suffix)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func extractInto(src io.Reader, root, dir string) error {
	archive, size, cleanup, err := readerAt(src, root)
	if err != nil {
		return apperr.Import("unable to read deck file", err)
	}
	defer cleanup()

	zr, err := zip.NewReader(archive, size)
	if err != nil {
		return apperr.Import("not a valid deck package", err)
	}

	for _, entry := range zr.File {
		if err := writeEntry(entry, dir); err != nil {
			return apperr.Import(fmt.Sprintf("failed to extract %s", entry.Name), err)
		}
	}
	return nil
}

// readerAt returns src as an io.ReaderAt. Plain streams are spooled to a
// temporary file under root first, since zip needs random access.
func readerAt(src io.Reader, root string) (io.ReaderAt, int64, func(), error) {
	if f, ok := src.(*os.File); ok {
		info, err := f.Stat()
		if err == nil && info.Mode().IsRegular() {
			return f, info.Size(), func() {}, nil
		}
	}

	tmp, err := os.CreateTemp(root, ".import-*.apkg")
	if err != nil {
		return nil, 0, nil, err
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	size, err := io.Copy(tmp, src)
	if err != nil {
		cleanup()
		return nil, 0, nil, err
	}
	return tmp, size, cleanup, nil
}

func writeEntry(entry *zip.File, dir string) error {
	name := filepath.FromSlash(strings.TrimSuffix(entry.Name, "/"))
	if name == "" {
		return nil
	}
	if !filepath.IsLocal(name) {
		return fmt.Errorf("entry path %q escapes the deck directory", entry.Name)
	}
	target := filepath.Join(dir, name)

	if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, "/") {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
