package db

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/shaharsat/library-graphql/models"
)

var _ Indexer = (*ElasticLibraryManager)(nil)

// ElasticLibraryManager mirrors books into an Elasticsearch index, one
// document per book id.
type ElasticLibraryManager struct {
	IndexName     string
	ElasticClient *elastic.Client
}

func NewElasticLibrary(client *elastic.Client, indexName string) *ElasticLibraryManager {
	return &ElasticLibraryManager{IndexName: indexName, ElasticClient: client}
}

// EnsureIndex creates the index when it does not exist yet.
func (library *ElasticLibraryManager) EnsureIndex(ctx context.Context) error {
	exists, err := library.ElasticClient.IndexExists(library.IndexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("checking index %s: %w", library.IndexName, err)
	}

	if exists {
		return nil
	}

	if _, err := library.ElasticClient.CreateIndex(library.IndexName).Do(ctx); err != nil {
		return fmt.Errorf("creating index %s: %w", library.IndexName, err)
	}

	return nil
}

func (library *ElasticLibraryManager) IndexBook(ctx context.Context, book models.Book) error {
	_, err := library.ElasticClient.
		Index().
		Index(library.IndexName).
		Id(book.ID).
		BodyJson(book).
		Do(ctx)

	return err
}

func (library *ElasticLibraryManager) RemoveBook(ctx context.Context, id string) error {
	_, err := library.ElasticClient.
		Delete().
		Index(library.IndexName).
		Id(id).
		Do(ctx)

	if elastic.IsNotFound(err) {
		return nil
	}

	return err
}
