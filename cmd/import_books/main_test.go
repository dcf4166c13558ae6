package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-records/library"
)

func TestImportBooks(t *testing.T) {
	log.SetOutput(io.Discard)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "books.csv")
	dbPath := filepath.Join(dir, "library.db")
	require.NoError(t, os.WriteFile(csvPath, []byte("title,author\n1984,George Orwell\nAnimal Farm,George Orwell\n"), 0o644))

	require.NoError(t, importBooks(dbPath, csvPath))

	mgr, err := library.NewLibraryManager(dbPath)
	require.NoError(t, err)
	defer mgr.Close()

	books, err := mgr.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, books[0].AuthorID, books[1].AuthorID)
}

func TestImportBooksMissingFile(t *testing.T) {
	log.SetOutput(io.Discard)
	dir := t.TempDir()
	assert.Error(t, importBooks(filepath.Join(dir, "library.db"), filepath.Join(dir, "missing.csv")))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab...", truncateString("abcdefg", 5))
	assert.Equal(t, "ab", truncateString("abcdefg", 2))
}
