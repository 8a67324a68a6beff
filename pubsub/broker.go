package pubsub

import (
	"context"
	"sync"

	"github.com/shaharsat/library-graphql/models"
)

const BOOK_ADDED = "BOOK_ADDED"

// Broker fans published books out to every subscriber of a topic.
// Events published while nobody listens are dropped.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string]map[*subscriber]struct{}),
	}
}

// Publish queues book for every current subscriber of topic and returns
// without waiting for delivery.
func (b *Broker) Publish(topic string, book models.Book) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.topics[topic] {
		sub.push(book)
	}
}

// Subscribe returns the books published on topic from now on, in publish
// order. The channel is closed once ctx is done.
func (b *Broker) Subscribe(ctx context.Context, topic string) <-chan models.Book {
	sub := newSubscriber()

	b.mu.Lock()
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*subscriber]struct{})
	}
	b.topics[topic][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		sub.run(ctx)
		b.unsubscribe(topic, sub)
	}()

	return sub.out
}

func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.topics[topic])
}

func (b *Broker) unsubscribe(topic string, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.topics[topic], sub)
	if len(b.topics[topic]) == 0 {
		delete(b.topics, topic)
	}
}
