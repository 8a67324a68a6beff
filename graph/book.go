package graph

import (
	"github.com/graph-gophers/graphql-go"

	"github.com/shaharsat/library-graphql/models"
)

type BookResolver struct {
	book models.Book
	root *Resolver
}

func (b *BookResolver) ID() graphql.ID {
	return graphql.ID(b.book.ID)
}

func (b *BookResolver) Title() string {
	return b.book.Title
}

func (b *BookResolver) ReleaseYear() int32 {
	return b.book.ReleaseYear
}

func (b *BookResolver) AuthorID() graphql.ID {
	return graphql.ID(b.book.AuthorID)
}

// Author is looked up when the field is selected; a dangling authorId
// yields null.
func (b *BookResolver) Author() *AuthorResolver {
	author, ok := b.root.library.Author(b.book.AuthorID)
	if !ok {
		return nil
	}

	return b.root.authorResolver(author)
}
