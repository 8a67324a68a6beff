package db

import (
	"sync"

	"github.com/samber/lo"

	"github.com/shaharsat/library-graphql/models"
)

var _ LibraryManager = (*MemoryLibrary)(nil)

// MemoryLibrary keeps books and authors in process memory. All access
// goes through mu and every read hands out a copy.
type MemoryLibrary struct {
	mu      sync.RWMutex
	books   []models.Book
	authors []models.Author
	ids     IDGenerator
}

func DefaultBooks() []models.Book {
	return []models.Book{
		{ID: "1", Title: "Book 1", ReleaseYear: 2000, AuthorID: "1"},
		{ID: "2", Title: "Book 2", ReleaseYear: 2010, AuthorID: "2"},
	}
}

func DefaultAuthors() []models.Author {
	return []models.Author{
		{ID: "1", Name: "Author 1"},
		{ID: "2", Name: "Author 2"},
	}
}

func NewMemoryLibrary(ids IDGenerator, books []models.Book, authors []models.Author) *MemoryLibrary {
	if ids == nil {
		ids = SequenceIDGenerator{}
	}

	return &MemoryLibrary{
		books:   append([]models.Book(nil), books...),
		authors: append([]models.Author(nil), authors...),
		ids:     ids,
	}
}

func (library *MemoryLibrary) Books() []models.Book {
	library.mu.RLock()
	defer library.mu.RUnlock()

	return append([]models.Book{}, library.books...)
}

func (library *MemoryLibrary) Book(id string) (models.Book, bool) {
	library.mu.RLock()
	defer library.mu.RUnlock()

	return lo.Find(library.books, func(book models.Book) bool {
		return book.ID == id
	})
}

func (library *MemoryLibrary) BooksByAuthor(authorId string) []models.Book {
	library.mu.RLock()
	defer library.mu.RUnlock()

	return lo.Filter(library.books, func(book models.Book, _ int) bool {
		return book.AuthorID == authorId
	})
}

func (library *MemoryLibrary) Authors() []models.Author {
	library.mu.RLock()
	defer library.mu.RUnlock()

	return append([]models.Author{}, library.authors...)
}

func (library *MemoryLibrary) Author(id string) (models.Author, bool) {
	library.mu.RLock()
	defer library.mu.RUnlock()

	return lo.Find(library.authors, func(author models.Author) bool {
		return author.ID == id
	})
}

func (library *MemoryLibrary) CreateBook(authorId, title string, releaseYear int32) models.Book {
	library.mu.Lock()
	defer library.mu.Unlock()

	book := models.Book{
		ID:          library.ids.NextID(library.books),
		Title:       title,
		ReleaseYear: releaseYear,
		AuthorID:    authorId,
	}
	library.books = append(library.books, book)

	return book
}

func (library *MemoryLibrary) UpdateBook(id, authorId, title string, releaseYear int32) (models.Book, bool) {
	library.mu.Lock()
	defer library.mu.Unlock()

	_, index, ok := lo.FindIndexOf(library.books, func(book models.Book) bool {
		return book.ID == id
	})
	if !ok {
		return models.Book{}, false
	}

	updated := models.Book{
		ID:          id,
		Title:       title,
		ReleaseYear: releaseYear,
		AuthorID:    authorId,
	}
	library.books[index] = updated

	return updated, true
}

func (library *MemoryLibrary) DeleteBook(id string) int {
	library.mu.Lock()
	defer library.mu.Unlock()

	kept := lo.Reject(library.books, func(book models.Book, _ int) bool {
		return book.ID == id
	})
	removed := len(library.books) - len(kept)
	library.books = kept

	return removed
}

func (library *MemoryLibrary) Stats() models.LibraryStats {
	library.mu.RLock()
	defer library.mu.RUnlock()

	return models.LibraryStats{
		NumberOfBooks:   len(library.books),
		NumberOfAuthors: len(library.authors),
	}
}
