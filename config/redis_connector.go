package config

import (
	"fmt"

	"gopkg.in/redis.v5"
)

func SetupRedis(redisUrl string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: redisUrl,
	})

	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", redisUrl, err)
	}

	return client, nil
}
