package cache

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/shaharsat/library-graphql/models"
)

// ActivityLog records the latest requests of each user.
type ActivityLog struct {
	cacher RequestCacher
}

func NewActivityLog(cacher RequestCacher) *ActivityLog {
	return &ActivityLog{cacher: cacher}
}

func (log *ActivityLog) Record(username string, request models.UserRequest) error {
	value, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encoding user request: %w", err)
	}

	return log.cacher.Write(username, value)
}

// Recent returns the user's requests, newest first.
func (log *ActivityLog) Recent(username string) ([]models.UserRequest, error) {
	values, err := log.cacher.Read(username)
	if err != nil {
		return nil, fmt.Errorf("reading activity of %s: %w", username, err)
	}

	requests := make([]models.UserRequest, 0, len(values))
	for _, value := range values {
		var request models.UserRequest
		if err := json.Unmarshal([]byte(value), &request); err != nil {
			return nil, fmt.Errorf("decoding user request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, nil
}
