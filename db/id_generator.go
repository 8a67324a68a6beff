package db

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaharsat/library-graphql/config"
	"github.com/shaharsat/library-graphql/models"
)

type IDGenerator interface {
	NextID(books []models.Book) string
}

// SequenceIDGenerator numbers books by the size of the collection. Ids
// repeat once a book has been deleted.
type SequenceIDGenerator struct{}

func (SequenceIDGenerator) NextID(books []models.Book) string {
	return strconv.Itoa(len(books) + 1)
}

type UUIDGenerator struct{}

func (UUIDGenerator) NextID([]models.Book) string {
	return uuid.NewString()
}

func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case config.ID_STRATEGY_SEQUENCE, "":
		return SequenceIDGenerator{}, nil
	case config.ID_STRATEGY_UUID:
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
