// Copyright (c) 2026 Kryspinoff. All rights reserved.

package filestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCreateAndOpen(t *testing.T) {
	store := newTestStore(t)

	written, err := store.Create(CategoryImage, 7, "cover.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), written)

	file, err := store.Open(CategoryImage, 7, "cover.png")
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestCreateRejectsExisting(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(CategoryPDF, 1, "book.pdf", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = store.Create(CategoryPDF, 1, "book.pdf", strings.NewReader("second"))
	assert.ErrorIs(t, err, ErrExist)
}

func TestReplaceOverwritesExisting(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(CategoryPDF, 1, "book.pdf", strings.NewReader("first version"))
	require.NoError(t, err)
	_, err = store.Replace(CategoryPDF, 1, "book.pdf", strings.NewReader("second"))
	require.NoError(t, err)

	file, err := store.Open(CategoryPDF, 1, "book.pdf")
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestOpenMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Open(CategoryImage, 42, "missing.png")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestSanitizeFilenames(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(CategoryImage, 1, "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)

	// Path components are stripped, not rejected.
	_, err = store.Create(CategoryImage, 1, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, store.Exists(CategoryImage, 1, "passwd"))
}

func TestRemoveImageSweepsDirectory(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(CategoryImage, 3, "cover.png", strings.NewReader("img"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(CategoryImage, 3, "cover.png"))

	_, statErr := os.Stat(filepath.Join(store.root, "images", "books", "3"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemovePDFKeepsSibling(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(CategoryPDF, 3, "full.pdf", strings.NewReader("full"))
	require.NoError(t, err)
	_, err = store.Create(CategoryShortPDF, 3, "short.pdf", strings.NewReader("short"))
	require.NoError(t, err)

	// Removing the full PDF leaves the shared directory with the short PDF in place.
	require.NoError(t, store.Remove(CategoryPDF, 3, "full.pdf"))
	assert.True(t, store.Exists(CategoryShortPDF, 3, "short.pdf"))

	// Removing the last file takes the directory with it.
	require.NoError(t, store.Remove(CategoryShortPDF, 3, "short.pdf"))
	_, statErr := os.Stat(filepath.Join(store.root, "files", "books", "3"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveMissing(t *testing.T) {
	store := newTestStore(t)
	err := store.Remove(CategoryPDF, 9, "nope.pdf")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestRemoveBook(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(CategoryImage, 5, "cover.png", strings.NewReader("img"))
	require.NoError(t, err)
	_, err = store.Create(CategoryPDF, 5, "full.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveBook(5))

	assert.False(t, store.Exists(CategoryImage, 5, "cover.png"))
	assert.False(t, store.Exists(CategoryPDF, 5, "full.pdf"))

	// Idempotent for books that never had assets.
	assert.NoError(t, store.RemoveBook(99))
}
