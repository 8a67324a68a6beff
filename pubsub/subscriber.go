package pubsub

import (
	"context"
	"sync"

	"github.com/shaharsat/library-graphql/models"
)

// subscriber buffers pending books without bound so publishers never
// wait on a slow reader.
type subscriber struct {
	mu      sync.Mutex
	pending []models.Book
	wake    chan struct{}
	out     chan models.Book
}

func newSubscriber() *subscriber {
	return &subscriber{
		wake: make(chan struct{}, 1),
		out:  make(chan models.Book),
	}
}

func (s *subscriber) push(book models.Book) {
	s.mu.Lock()
	s.pending = append(s.pending, book)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) take() []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.pending
	s.pending = nil
	return batch
}

func (s *subscriber) run(ctx context.Context) {
	defer close(s.out)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		for _, book := range s.take() {
			select {
			case s.out <- book:
			case <-ctx.Done():
				return
			}
		}
	}
}
