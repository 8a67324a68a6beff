package graph

import (
	"github.com/graph-gophers/graphql-go"

	"github.com/shaharsat/library-graphql/models"
)

type AuthorResolver struct {
	author models.Author
	root   *Resolver
}

func (a *AuthorResolver) ID() graphql.ID {
	return graphql.ID(a.author.ID)
}

func (a *AuthorResolver) Name() string {
	return a.author.Name
}

func (a *AuthorResolver) Books() []*BookResolver {
	return a.root.bookResolvers(a.root.library.BooksByAuthor(a.author.ID))
}
