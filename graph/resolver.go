package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/shaharsat/library-graphql/db"
	"github.com/shaharsat/library-graphql/models"
	"github.com/shaharsat/library-graphql/pubsub"
)

// Resolver is the root of Query, Mutation and Subscription. Missing
// entities resolve to null, never to an error.
type Resolver struct {
	library db.LibraryManager
	broker  *pubsub.Broker
	logger  *zap.Logger
}

func NewResolver(library db.LibraryManager, broker *pubsub.Broker, logger *zap.Logger) *Resolver {
	return &Resolver{library: library, broker: broker, logger: logger}
}

func (r *Resolver) Books() []*BookResolver {
	return r.bookResolvers(r.library.Books())
}

func (r *Resolver) Book(args struct{ ID graphql.ID }) *BookResolver {
	book, ok := r.library.Book(string(args.ID))
	if !ok {
		return nil
	}

	return r.bookResolver(book)
}

func (r *Resolver) Authors() []*AuthorResolver {
	authors := r.library.Authors()

	resolvers := make([]*AuthorResolver, len(authors))
	for i, author := range authors {
		resolvers[i] = r.authorResolver(author)
	}

	return resolvers
}

func (r *Resolver) Author(args struct{ ID graphql.ID }) *AuthorResolver {
	author, ok := r.library.Author(string(args.ID))
	if !ok {
		return nil
	}

	return r.authorResolver(author)
}

type createBookArgs struct {
	AuthorID    graphql.ID
	Title       string
	ReleaseYear int32
}

func (r *Resolver) CreateBook(args createBookArgs) *BookResolver {
	book := r.library.CreateBook(string(args.AuthorID), args.Title, args.ReleaseYear)
	r.broker.Publish(pubsub.BOOK_ADDED, book)
	r.logger.Debug("book created", zap.String("id", book.ID))

	return r.bookResolver(book)
}

type updateBookArgs struct {
	ID          graphql.ID
	AuthorID    graphql.ID
	Title       string
	ReleaseYear int32
}

func (r *Resolver) UpdateBook(args updateBookArgs) *BookResolver {
	book, ok := r.library.UpdateBook(string(args.ID), string(args.AuthorID), args.Title, args.ReleaseYear)
	if !ok {
		return nil
	}

	return r.bookResolver(book)
}

func (r *Resolver) DeleteBook(args struct{ ID graphql.ID }) *models.DeleteResponse {
	removed := r.library.DeleteBook(string(args.ID))
	r.logger.Debug("book deleted", zap.String("id", string(args.ID)), zap.Int("removed", removed))

	return &models.DeleteResponse{Message: models.BOOK_DELETED_MESSAGE}
}

// BookAdded streams books created after the subscription started until
// ctx is done.
func (r *Resolver) BookAdded(ctx context.Context) <-chan *BookResolver {
	events := r.broker.Subscribe(ctx, pubsub.BOOK_ADDED)
	out := make(chan *BookResolver)

	go func() {
		defer close(out)

		for book := range events {
			select {
			case out <- r.bookResolver(book):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (r *Resolver) bookResolver(book models.Book) *BookResolver {
	return &BookResolver{book: book, root: r}
}

func (r *Resolver) bookResolvers(books []models.Book) []*BookResolver {
	resolvers := make([]*BookResolver, len(books))
	for i, book := range books {
		resolvers[i] = r.bookResolver(book)
	}

	return resolvers
}

func (r *Resolver) authorResolver(author models.Author) *AuthorResolver {
	return &AuthorResolver{author: author, root: r}
}
