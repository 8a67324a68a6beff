package models

type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ReleaseYear int32  `json:"releaseYear"`
	AuthorID    string `json:"authorId"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
