package models

const BOOK_DELETED_MESSAGE = "Book deleted successfully"

type DeleteResponse struct {
	Message string `json:"message"`
}

type LibraryStats struct {
	NumberOfBooks   int `json:"number_of_books"`
	NumberOfAuthors int `json:"number_of_authors"`
}
