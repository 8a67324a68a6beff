package db

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shaharsat/library-graphql/models"
)

const DEFAULT_INDEX_TIMEOUT = 5 * time.Second

type Indexer interface {
	IndexBook(ctx context.Context, book models.Book) error
	RemoveBook(ctx context.Context, id string) error
}

var _ LibraryManager = (*MirroredLibrary)(nil)

// MirroredLibrary forwards every successful write of the wrapped library
// to an Indexer. Indexing failures are logged and otherwise ignored.
//
// Index documents are keyed by book id. With sequence ids a book created
// after a delete can reuse the id of a stored book, in which case the
// library holds both books while the index keeps only the latest one.
// Deleting that id removes both from the library and the document from
// the index. Use uuid ids for a one to one mirror.
type MirroredLibrary struct {
	LibraryManager

	indexer Indexer
	logger  *zap.Logger
	timeout time.Duration
}

func NewMirroredLibrary(library LibraryManager, indexer Indexer, logger *zap.Logger) *MirroredLibrary {
	return &MirroredLibrary{
		LibraryManager: library,
		indexer:        indexer,
		logger:         logger,
		timeout:        DEFAULT_INDEX_TIMEOUT,
	}
}

func (library *MirroredLibrary) CreateBook(authorId, title string, releaseYear int32) models.Book {
	book := library.LibraryManager.CreateBook(authorId, title, releaseYear)
	library.index(book)

	return book
}

func (library *MirroredLibrary) UpdateBook(id, authorId, title string, releaseYear int32) (models.Book, bool) {
	book, ok := library.LibraryManager.UpdateBook(id, authorId, title, releaseYear)
	if ok {
		library.index(book)
	}

	return book, ok
}

func (library *MirroredLibrary) DeleteBook(id string) int {
	removed := library.LibraryManager.DeleteBook(id)
	if removed == 0 {
		return removed
	}

	ctx, cancel := context.WithTimeout(context.Background(), library.timeout)
	defer cancel()

	if err := library.indexer.RemoveBook(ctx, id); err != nil {
		library.logger.Warn("failed to remove book from search index", zap.String("id", id), zap.Error(err))
	}

	return removed
}

func (library *MirroredLibrary) index(book models.Book) {
	ctx, cancel := context.WithTimeout(context.Background(), library.timeout)
	defer cancel()

	if err := library.indexer.IndexBook(ctx, book); err != nil {
		library.logger.Warn("failed to index book", zap.String("id", book.ID), zap.Error(err))
	}
}
