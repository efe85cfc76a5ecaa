package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"shelfkeeper/internal/domain/localstore"
)

const redisKeyPrefix = "shelfkeeper:"

// RedisStorage локальное хранилище на Redis. Удобно, когда несколько
// процессов одного рабочего места должны видеть общую очередь.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(ctx context.Context, addr string) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ошибка подключения к redis: %w", err)
	}
	return &RedisStorage{client: client, prefix: redisKeyPrefix}, nil
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, localstore.Wrap("get "+key, err)
	}
	return value, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	return localstore.Wrap("set "+key, s.client.Set(ctx, s.prefix+key, value, 0).Err())
}

func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	return localstore.Wrap("remove "+key, s.client.Del(ctx, s.prefix+key).Err())
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
