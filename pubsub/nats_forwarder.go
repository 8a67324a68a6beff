package pubsub

import (
	"context"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/shaharsat/library-graphql/models"
)

const BOOK_ADDED_SUBJECT = "bookAdded"

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type bookAddedMessage struct {
	BookAdded models.Book `json:"bookAdded"`
}

// NatsForwarder re-publishes every BOOK_ADDED event on a NATS subject.
type NatsForwarder struct {
	broker    *Broker
	publisher Publisher
	subject   string
	logger    *zap.Logger
}

func NewNatsForwarder(broker *Broker, publisher Publisher, logger *zap.Logger) *NatsForwarder {
	return &NatsForwarder{
		broker:    broker,
		publisher: publisher,
		subject:   BOOK_ADDED_SUBJECT,
		logger:    logger,
	}
}

// Run forwards events until ctx is done.
func (f *NatsForwarder) Run(ctx context.Context) error {
	for book := range f.broker.Subscribe(ctx, BOOK_ADDED) {
		data, err := json.Marshal(bookAddedMessage{BookAdded: book})
		if err != nil {
			f.logger.Error("failed to encode book event", zap.String("id", book.ID), zap.Error(err))
			continue
		}

		if err := f.publisher.Publish(f.subject, data); err != nil {
			f.logger.Warn("failed to forward book event to nats", zap.String("id", book.ID), zap.Error(err))
		}
	}

	return nil
}
