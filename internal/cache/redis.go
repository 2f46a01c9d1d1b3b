package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisStore implements Store on a redis server. Keys are prefixed with the
// version tag, so distinct versions never share entries.
type RedisStore struct {
	client  *redis.Client
	version string
}

// NewRedis creates a new redis-backed store for the given version tag
func NewRedis(addr, password string, db int, version string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{
		client:  client,
		version: version,
	}
}

func (r *RedisStore) key(key string) string {
	return r.version + ":" + key
}

// Init checks connectivity to the redis server
func (r *RedisStore) Init(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get retrieves stored data if the key is present
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores data under a key, with no expiration
func (r *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.key(key), data, 0).Err()
}

// Clear removes every key under this version's prefix
func (r *RedisStore) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.version+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	logrus.Debugf("Cleared redis entries for version %s", r.version)
	return nil
}

// Version returns the version tag
func (r *RedisStore) Version() string {
	return r.version
}
