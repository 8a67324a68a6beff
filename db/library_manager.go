package db

import "github.com/shaharsat/library-graphql/models"

// LibraryManager is the data access contract of the resolvers. Lookups
// report absence through the boolean, never through an error.
type LibraryManager interface {
	Books() []models.Book
	Book(id string) (models.Book, bool)
	BooksByAuthor(authorId string) []models.Book
	Authors() []models.Author
	Author(id string) (models.Author, bool)
	CreateBook(authorId, title string, releaseYear int32) models.Book
	UpdateBook(id, authorId, title string, releaseYear int32) (models.Book, bool)
	DeleteBook(id string) int
	Stats() models.LibraryStats
}
