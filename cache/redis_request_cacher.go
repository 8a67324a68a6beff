package cache

import (
	"gopkg.in/redis.v5"
)

var _ RequestCacher = (*RedisRequestCacher)(nil)

type RedisRequestCacher struct {
	Client    *redis.Client
	MaxNumber int
}

func CreateRedisCache(client *redis.Client, maxNumber int) *RedisRequestCacher {
	return &RedisRequestCacher{Client: client, MaxNumber: maxNumber}
}

func (cacher *RedisRequestCacher) Write(key string, value []byte) error {
	pushCmd := cacher.Client.LPush(key, value)

	if pushCmd.Err() != nil {
		return pushCmd.Err()
	}

	trimCmd := cacher.Client.LTrim(key, 0, int64(cacher.MaxNumber-1))

	if trimCmd.Err() != nil {
		return trimCmd.Err()
	}

	return nil
}

func (cacher *RedisRequestCacher) Read(key string) ([]string, error) {
	return cacher.Client.LRange(key, 0, int64(cacher.MaxNumber-1)).Result()
}
