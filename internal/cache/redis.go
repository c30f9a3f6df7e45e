package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore shares the read caches between API instances
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. Keys are "<prefix>:<cache>:<key>".
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "catalog"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// DialRedis connects and pings a Redis server
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisStore) key(cache, key string) string {
	return r.prefix + ":" + cache + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, cache, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(cache, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisStore) Put(ctx context.Context, cache, key string, value []byte) error {
	return r.client.Set(ctx, r.key(cache, key), value, r.ttl).Err()
}

// EvictAll deletes every key of every named cache
func (r *RedisStore) EvictAll(ctx context.Context) error {
	for _, name := range Names {
		iter := r.client.Scan(ctx, 0, r.prefix+":"+name+":*", 200).Iterator()
		var batch []string
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == 200 {
				if err := r.client.Del(ctx, batch...).Err(); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s keys: %w", name, err)
		}
		if len(batch) > 0 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
