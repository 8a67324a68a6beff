package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shaharsat/library-graphql/models"
)

type recordingIndexer struct {
	mu      sync.Mutex
	indexed []models.Book
	removed []string
	err     error
}

func (indexer *recordingIndexer) IndexBook(_ context.Context, book models.Book) error {
	indexer.mu.Lock()
	defer indexer.mu.Unlock()
	indexer.indexed = append(indexer.indexed, book)
	return indexer.err
}

func (indexer *recordingIndexer) RemoveBook(_ context.Context, id string) error {
	indexer.mu.Lock()
	defer indexer.mu.Unlock()
	indexer.removed = append(indexer.removed, id)
	return indexer.err
}

func TestMirroredLibraryIndexesWrites(t *testing.T) {
	indexer := &recordingIndexer{}
	library := NewMirroredLibrary(newTestLibrary(), indexer, zaptest.NewLogger(t))

	created := library.CreateBook("1", "Mirrored", 2024)
	updated, ok := library.UpdateBook(created.ID, "2", "Mirrored again", 2025)
	require.True(t, ok)

	_, ok = library.UpdateBook("404", "2", "Missing", 2025)
	require.False(t, ok)

	assert.Equal(t, 1, library.DeleteBook(created.ID))
	assert.Equal(t, 0, library.DeleteBook("404"))

	assert.Equal(t, []models.Book{created, updated}, indexer.indexed)
	assert.Equal(t, []string{created.ID}, indexer.removed)
}

func TestMirroredLibraryIgnoresIndexFailures(t *testing.T) {
	indexer := &recordingIndexer{err: errors.New("index unavailable")}
	library := NewMirroredLibrary(newTestLibrary(), indexer, zaptest.NewLogger(t))

	book := library.CreateBook("1", "Still stored", 2024)

	found, ok := library.Book(book.ID)
	require.True(t, ok)
	assert.Equal(t, book, found)
	assert.Equal(t, 1, library.DeleteBook(book.ID))
}

func TestMirroredLibraryDelegatesReads(t *testing.T) {
	library := NewMirroredLibrary(newTestLibrary(), &recordingIndexer{}, zaptest.NewLogger(t))

	assert.Len(t, library.Books(), 2)
	assert.Len(t, library.Authors(), 2)
	assert.Equal(t, models.LibraryStats{NumberOfBooks: 2, NumberOfAuthors: 2}, library.Stats())
}

type keyedIndexer struct {
	documents map[string]models.Book
}

func (indexer *keyedIndexer) IndexBook(_ context.Context, book models.Book) error {
	indexer.documents[book.ID] = book
	return nil
}

func (indexer *keyedIndexer) RemoveBook(_ context.Context, id string) error {
	delete(indexer.documents, id)
	return nil
}

func TestMirroredLibraryReusedSequenceID(t *testing.T) {
	indexer := &keyedIndexer{documents: map[string]models.Book{}}
	library := NewMirroredLibrary(newTestLibrary(), indexer, zaptest.NewLogger(t))

	require.Equal(t, 1, library.DeleteBook("1"))
	reused := library.CreateBook("1", "Reused", 2024)
	require.Equal(t, "2", reused.ID)

	assert.Len(t, library.BooksByAuthor("1"), 1)
	assert.Len(t, library.Books(), 2)
	assert.Equal(t, map[string]models.Book{"2": reused}, indexer.documents)

	assert.Equal(t, 2, library.DeleteBook("2"))
	assert.Empty(t, library.Books())
	assert.Empty(t, indexer.documents)
}
