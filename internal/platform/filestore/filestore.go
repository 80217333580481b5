// Copyright (c) 2026 Kryspinoff. All rights reserved.

/*
Package filestore manages on-disk book assets: cover images and PDF files.

Layout under the static root:

	static/images/books/{book_id}/{filename}   cover images
	static/files/books/{book_id}/{filename}    full and short PDFs

The full PDF and the short (preview) PDF deliberately share one directory,
so removing one of them must not sweep the sibling away. Images live alone
in their directory and are removed together with it.
*/
package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Kryspinoff/bookstore/internal/platform/constants"
)

// Category identifies which asset slot of a book a file belongs to.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryPDF      Category = "pdf"
	CategoryShortPDF Category = "short_pdf"
)

// Valid reports whether c is a known asset category.
func (c Category) Valid() bool {
	switch c {
	case CategoryImage, CategoryPDF, CategoryShortPDF:
		return true
	}
	return false
}

var (
	// ErrNotExist is returned when the requested asset file is missing on disk.
	ErrNotExist = errors.New("filestore: file does not exist")

	// ErrExist is returned by [Store.Create] when the target file already exists.
	ErrExist = errors.New("filestore: file already exists")

	// ErrInvalidFilename is returned for empty or path-traversing filenames.
	ErrInvalidFilename = errors.New("filestore: invalid filename")
)

// Store serves and persists book assets under a single static root directory.
type Store struct {
	root string
}

// New creates the static root (if needed) and returns a [Store].
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: failed to create static root: %w", err)
	}
	return &Store{root: root}, nil
}

// dir returns the directory holding the given book's assets for a category.
func (s *Store) dir(category Category, bookID int) string {
	id := strconv.Itoa(bookID)
	if category == CategoryImage {
		return filepath.Join(s.root, "images", "books", id)
	}
	return filepath.Join(s.root, "files", "books", id)
}

// Path returns the absolute on-disk path for an asset file.
func (s *Store) Path(category Category, bookID int, filename string) (string, error) {
	clean, err := sanitize(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir(category, bookID), clean), nil
}

// Create streams the reader into a brand-new file, creating parent
// directories as needed. The open is atomic fail-if-exists: two concurrent
// uploads for the same book and category cannot silently race, the second
// one gets [ErrExist]. It returns the number of bytes written.
func (s *Store) Create(category Category, bookID int, filename string, reader io.Reader) (int64, error) {
	path, err := s.Path(category, bookID, filename)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("filestore: failed to create asset directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return 0, ErrExist
	}
	if err != nil {
		return 0, fmt.Errorf("filestore: failed to create asset file: %w", err)
	}

	return s.copyTo(file, path, reader)
}

// Replace streams the reader to disk, overwriting any existing file with the
// same name. Used by the explicit asset replacement operation.
func (s *Store) Replace(category Category, bookID int, filename string, reader io.Reader) (int64, error) {
	path, err := s.Path(category, bookID, filename)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("filestore: failed to create asset directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("filestore: failed to create asset file: %w", err)
	}

	return s.copyTo(file, path, reader)
}

// copyTo drains the reader into the open file in bounded chunks, removing the
// partial file on write failure.
func (s *Store) copyTo(file *os.File, path string, reader io.Reader) (int64, error) {
	buffer := make([]byte, constants.UploadCopyBufferSize)
	written, err := io.CopyBuffer(file, reader, buffer)
	if err != nil {
		file.Close()
		os.Remove(path)
		return 0, fmt.Errorf("filestore: failed to write asset file: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("filestore: failed to close asset file: %w", err)
	}
	return written, nil
}

// Open returns a readable handle to a stored asset.
// Callers own the returned file and must close it.
func (s *Store) Open(category Category, bookID int, filename string) (*os.File, error) {
	path, err := s.Path(category, bookID, filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: failed to open asset file: %w", err)
	}
	return file, nil
}

// Exists reports whether the asset file is present on disk.
func (s *Store) Exists(category Category, bookID int, filename string) bool {
	path, err := s.Path(category, bookID, filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Remove deletes a stored asset.
//
// Images take their whole directory with them. PDFs remove only their own
// file, then the shared directory if nothing else is left in it.
func (s *Store) Remove(category Category, bookID int, filename string) error {
	path, err := s.Path(category, bookID, filename)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("filestore: failed to remove asset file: %w", err)
	}

	dir := filepath.Dir(path)
	if category == CategoryImage {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("filestore: failed to remove image directory: %w", err)
		}
		return nil
	}

	// Shared PDF directory: remove only when it is now empty.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("filestore: failed to inspect asset directory: %w", err)
	}
	if len(entries) == 0 {
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("filestore: failed to remove empty asset directory: %w", err)
		}
	}
	return nil
}

// RemoveBook deletes every asset directory belonging to a book. Used when the
// book row itself is deleted. Missing directories are not an error.
func (s *Store) RemoveBook(bookID int) error {
	id := strconv.Itoa(bookID)
	for _, dir := range []string{
		filepath.Join(s.root, "images", "books", id),
		filepath.Join(s.root, "files", "books", id),
	} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("filestore: failed to remove book assets: %w", err)
		}
	}
	return nil
}

// sanitize strips any path components from a client-supplied filename.
func sanitize(filename string) (string, error) {
	clean := filepath.Base(strings.TrimSpace(filename))
	if clean == "" || clean == "." || clean == ".." || clean == string(filepath.Separator) {
		return "", ErrInvalidFilename
	}
	return clean, nil
}
