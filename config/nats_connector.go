package config

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

func SetupNats(natsUrl string) (*nats.Conn, error) {
	nc, err := nats.Connect(natsUrl, nats.Name("library-graphql"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", natsUrl, err)
	}

	return nc, nil
}
